package services

import (
	"context"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/platform/obs"
	"mobility-route-service/internal/ports"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TrafficInsight is the traffic reading at a point plus its time context.
type TrafficInsight struct {
	Location   domain.Coordinate
	Flow       domain.TrafficSnapshot
	Congestion domain.CongestionLevel
	TimePeriod string
	PeakHour   bool
	ObservedAt time.Time
}

// AreaReport combines flow, incidents and POIs around a point. Collaborator
// failures are listed in Warnings and degrade the corresponding input.
type AreaReport struct {
	Location     domain.Coordinate
	RadiusMeters int
	Flow         *domain.TrafficSnapshot
	Incidents    []domain.Incident
	POIs         []domain.POI
	Distribution domain.POIDistribution
	Area         domain.AreaClassification
	Mobility     domain.MobilityPattern
	TimePeriod   string
	PeakHour     bool
	Warnings     []string
	ObservedAt   time.Time
}

type AreaInsightsService struct {
	flow      ports.TrafficFlowProvider
	incidents ports.IncidentProvider
	pois      ports.POISearcher
	log       *zap.Logger
	now       func() time.Time
}

func NewAreaInsightsService(flow ports.TrafficFlowProvider, incidents ports.IncidentProvider, pois ports.POISearcher, log *zap.Logger) *AreaInsightsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AreaInsightsService{flow: flow, incidents: incidents, pois: pois, log: log, now: time.Now}
}

// Traffic returns the flow reading at point. Unlike AnalyzeArea, a provider
// failure is returned as an error since there is nothing to degrade to.
func (s *AreaInsightsService) Traffic(ctx context.Context, point domain.Coordinate) (ti TrafficInsight, err error) {
	defer obs.Time(ctx, s.log, "insights.Traffic")(&err)

	flow, err := s.flow.Flow(ctx, point)
	if err != nil {
		return TrafficInsight{}, fmt.Errorf("traffic insight: %w", err)
	}

	now := s.now()
	return TrafficInsight{
		Location:   point,
		Flow:       flow,
		Congestion: flow.CongestionLevel(),
		TimePeriod: domain.TimePeriod(now),
		PeakHour:   domain.IsPeakHour(now),
		ObservedAt: now,
	}, nil
}

// POIAnalysis searches POIs and summarizes their distribution.
func (s *AreaInsightsService) POIAnalysis(ctx context.Context, point domain.Coordinate, radiusMeters int, category string) (pois []domain.POI, dist domain.POIDistribution, err error) {
	defer obs.Time(ctx, s.log, "insights.POIAnalysis")(&err)

	pois, err = s.pois.SearchPOIs(ctx, point, radiusMeters, category)
	if err != nil {
		return nil, domain.POIDistribution{}, fmt.Errorf("poi analysis: %w", err)
	}
	return pois, AnalyzePOIDistribution(pois), nil
}

// AnalyzeArea fetches the three inputs concurrently and never fails: a missing
// flow reading yields unknown congestion and failed lists are empty.
func (s *AreaInsightsService) AnalyzeArea(ctx context.Context, point domain.Coordinate, radiusMeters int, category string) AreaReport {
	var err error
	defer obs.Time(ctx, s.log, "insights.AnalyzeArea")(&err)

	var (
		flow                   *domain.TrafficSnapshot
		incidents              = []domain.Incident{}
		pois                   = []domain.POI{}
		flowErr, incErr, poiErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		f, err := s.flow.Flow(ctx, point)
		if err != nil {
			flowErr = err
			return nil
		}
		flow = &f
		return nil
	})
	g.Go(func() error {
		box := domain.BBoxAround(point, float64(radiusMeters)/1000)
		list, err := s.incidents.Incidents(ctx, box)
		if err != nil {
			incErr = err
			return nil
		}
		if list != nil {
			incidents = list
		}
		return nil
	})
	g.Go(func() error {
		list, err := s.pois.SearchPOIs(ctx, point, radiusMeters, category)
		if err != nil {
			poiErr = err
			return nil
		}
		if list != nil {
			pois = list
		}
		return nil
	})
	_ = g.Wait()

	warnings := []string{}
	for _, w := range []struct {
		what string
		err  error
	}{{"traffic flow", flowErr}, {"incidents", incErr}, {"points of interest", poiErr}} {
		if w.err != nil {
			s.log.Warn("area input unavailable",
				zap.String("req_id", obs.RequestID(ctx)),
				zap.String("input", w.what),
				zap.Error(w.err))
			warnings = append(warnings, fmt.Sprintf("%s unavailable: %v", w.what, w.err))
		}
	}

	now := s.now()
	return AreaReport{
		Location:     point,
		RadiusMeters: radiusMeters,
		Flow:         flow,
		Incidents:    incidents,
		POIs:         pois,
		Distribution: AnalyzePOIDistribution(pois),
		Area:         ClassifyArea(pois, flow),
		Mobility:     AnalyzeMobility(flow, incidents, pois),
		TimePeriod:   domain.TimePeriod(now),
		PeakHour:     domain.IsPeakHour(now),
		Warnings:     warnings,
		ObservedAt:   now,
	}
}
