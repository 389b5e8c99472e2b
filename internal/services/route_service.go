package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"mobility-route-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RouteComparison is the full outcome of one compare request.
type RouteComparison struct {
	Origin      domain.Coordinate
	Destination domain.Coordinate
	Routes      map[domain.Strategy]domain.RouteRecord
	Comparison  domain.ComparisonResult
}

// RouteService computes strategy routes through a RouteProvider and turns
// provider output into canonical records.
type RouteService struct {
	provider   ports.RouteProvider
	normalizer *Normalizer
	rates      domain.Rates
	log        *zap.Logger
}

func NewRouteService(provider ports.RouteProvider, normalizer *Normalizer, rates domain.Rates, log *zap.Logger) *RouteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RouteService{provider: provider, normalizer: normalizer, rates: rates, log: log}
}

// ComputeRoute never returns an error: provider failures become a record with
// Success false.
func (s *RouteService) ComputeRoute(ctx context.Context, strategy domain.Strategy, origin, destination domain.Coordinate) domain.RouteRecord {
	var err error
	defer obs.Time(ctx, s.log, "route."+string(strategy))(&err)

	summary, err := s.provider.Route(ctx, origin, destination, domain.OptionsFor(strategy))
	if err != nil {
		return domain.FailedRouteRecord(strategy, describeProviderError(err))
	}

	rec, err := s.toRecord(strategy, summary)
	if err != nil {
		return domain.FailedRouteRecord(strategy, err.Error())
	}
	return rec
}

// ComputeRouteFrom normalizes both endpoints before computing. Normalization
// failures are returned to the caller.
func (s *RouteService) ComputeRouteFrom(ctx context.Context, strategy domain.Strategy, origin, destination LocationInput) (domain.RouteRecord, domain.Coordinate, domain.Coordinate, error) {
	o, d, err := s.endpoints(ctx, origin, destination)
	if err != nil {
		return domain.RouteRecord{}, o, d, err
	}
	return s.ComputeRoute(ctx, strategy, o, d), o, d, nil
}

// CompareRoutes issues the three strategy requests concurrently and compares
// the complete set of records.
func (s *RouteService) CompareRoutes(ctx context.Context, origin, destination LocationInput) (*RouteComparison, error) {
	o, d, err := s.endpoints(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	records := make([]domain.RouteRecord, len(domain.Strategies))
	var g errgroup.Group
	for i, strategy := range domain.Strategies {
		i, strategy := i, strategy
		g.Go(func() error {
			records[i] = s.ComputeRoute(ctx, strategy, o, d)
			return nil
		})
	}
	_ = g.Wait()

	routes := make(map[domain.Strategy]domain.RouteRecord, len(records))
	for _, r := range records {
		routes[r.Strategy] = r
	}

	return &RouteComparison{
		Origin:      o,
		Destination: d,
		Routes:      routes,
		Comparison:  CompareRoutes(routes),
	}, nil
}

func (s *RouteService) endpoints(ctx context.Context, origin, destination LocationInput) (domain.Coordinate, domain.Coordinate, error) {
	o, err := s.normalizer.Normalize(ctx, origin)
	if err != nil {
		return domain.Coordinate{}, domain.Coordinate{}, fmt.Errorf("normalize origin: %w", err)
	}
	d, err := s.normalizer.Normalize(ctx, destination)
	if err != nil {
		return o, domain.Coordinate{}, fmt.Errorf("normalize destination: %w", err)
	}
	return o, d, nil
}

// toRecord splits provider travel time into a base duration and a traffic
// delay so that their sum equals the reported travel time.
func (s *RouteService) toRecord(strategy domain.Strategy, sum ports.RouteSummary) (domain.RouteRecord, error) {
	for _, v := range []float64{sum.DistanceMeters, sum.TravelTimeSeconds, sum.TrafficDelaySeconds} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return domain.RouteRecord{}, errors.New("provider returned an invalid route summary")
		}
	}

	delay := math.Min(sum.TrafficDelaySeconds, sum.TravelTimeSeconds)
	base := sum.TravelTimeSeconds - delay

	return domain.NewRouteRecord(
		strategy,
		sum.DistanceMeters/1000,
		base/60,
		delay/60,
		sum.Geometry,
		s.rates,
	), nil
}

func describeProviderError(err error) string {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "routing provider timed out"
	}
	return fmt.Sprintf("routing provider failed: %v", err)
}
