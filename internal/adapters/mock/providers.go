package mock

import (
	"context"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/ports"
	"strings"
	"sync"
)

// Place is a canned geocoding answer.
type Place struct {
	Name string
	At   domain.Coordinate
}

// Geocoder resolves names from a fixed table, case-insensitively.
type Geocoder struct {
	m map[string]domain.Coordinate

	mu    sync.Mutex
	calls int
}

func NewGeocoder(places []Place) *Geocoder {
	m := make(map[string]domain.Coordinate, len(places))
	for _, p := range places {
		m[strings.ToLower(p.Name)] = p.At
	}
	return &Geocoder{m: m}
}

func (g *Geocoder) Geocode(ctx context.Context, name string) (domain.Coordinate, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	c, ok := g.m[strings.ToLower(name)]
	if !ok {
		return domain.Coordinate{}, &domain.GeocodingError{Query: name, Err: domain.ErrNotFound}
	}
	return c, nil
}

func (g *Geocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// RouteProvider answers per strategy; a strategy with an entry in Errs fails.
type RouteProvider struct {
	Summaries map[domain.Strategy]ports.RouteSummary
	Errs      map[domain.Strategy]error

	mu   sync.Mutex
	seen []domain.RouteOptions
}

func (p *RouteProvider) Route(ctx context.Context, origin, destination domain.Coordinate, opts domain.RouteOptions) (ports.RouteSummary, error) {
	p.mu.Lock()
	p.seen = append(p.seen, opts)
	p.mu.Unlock()

	if err := p.Errs[opts.Strategy]; err != nil {
		return ports.RouteSummary{}, err
	}
	s, ok := p.Summaries[opts.Strategy]
	if !ok {
		return ports.RouteSummary{}, &domain.ProviderError{Op: "mock route", Err: fmt.Errorf("no route for %s", opts.Strategy)}
	}
	return s, nil
}

// Requests returns the options of every call made so far.
func (p *RouteProvider) Requests() []domain.RouteOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.RouteOptions(nil), p.seen...)
}

// Traffic implements the flow, incident and POI ports from fixed data.
type Traffic struct {
	Snapshot    domain.TrafficSnapshot
	FlowErr     error
	IncidentSet []domain.Incident
	IncidentErr error
	POISet      []domain.POI
	POIErr      error
}

func (t *Traffic) Flow(ctx context.Context, point domain.Coordinate) (domain.TrafficSnapshot, error) {
	if t.FlowErr != nil {
		return domain.TrafficSnapshot{}, t.FlowErr
	}
	return t.Snapshot, nil
}

func (t *Traffic) Incidents(ctx context.Context, bbox domain.BBox) ([]domain.Incident, error) {
	if t.IncidentErr != nil {
		return nil, t.IncidentErr
	}
	return t.IncidentSet, nil
}

func (t *Traffic) SearchPOIs(ctx context.Context, point domain.Coordinate, radiusMeters int, category string) ([]domain.POI, error) {
	if t.POIErr != nil {
		return nil, t.POIErr
	}
	if category == "" {
		return t.POISet, nil
	}
	var out []domain.POI
	for _, p := range t.POISet {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Sink keeps every saved batch in memory.
type Sink struct {
	Err error

	mu      sync.Mutex
	batches [][]domain.TrafficRecord
}

func (s *Sink) SaveRecords(ctx context.Context, records []domain.TrafficRecord) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]domain.TrafficRecord(nil), records...))
	return nil
}

func (s *Sink) Batches() [][]domain.TrafficRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}
