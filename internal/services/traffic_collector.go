package services

import (
	"context"
	"errors"
	"fmt"
	"mobility-route-service/internal/domain"
	"mobility-route-service/internal/ports"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DelhiLocations is the default set of collection points.
func DelhiLocations() []domain.NamedLocation {
	return []domain.NamedLocation{
		{Name: "India Gate", Coordinate: domain.Coordinate{Lat: 28.6139, Lon: 77.2090}},
		{Name: "Connaught Place", Coordinate: domain.Coordinate{Lat: 28.6304, Lon: 77.2177}},
		{Name: "Noida Sector 18", Coordinate: domain.Coordinate{Lat: 28.5355, Lon: 77.3910}},
		{Name: "Nehru Place", Coordinate: domain.Coordinate{Lat: 28.5494, Lon: 77.2499}},
		{Name: "Saket", Coordinate: domain.Coordinate{Lat: 28.5244, Lon: 77.1855}},
		{Name: "Rohini", Coordinate: domain.Coordinate{Lat: 28.7041, Lon: 77.1025}},
		{Name: "Ghaziabad", Coordinate: domain.Coordinate{Lat: 28.6692, Lon: 77.4538}},
		{Name: "Gurugram Cyber Hub", Coordinate: domain.Coordinate{Lat: 28.4595, Lon: 77.0266}},
		{Name: "Kashmere Gate", Coordinate: domain.Coordinate{Lat: 28.6517, Lon: 77.2219}},
		{Name: "Chandni Chowk", Coordinate: domain.Coordinate{Lat: 28.6507, Lon: 77.2334}},
	}
}

// CongestionIndex is 1 - current/free-flow clipped to [0, 1], or 0.5 when
// free-flow speed is unknown.
func CongestionIndex(s domain.TrafficSnapshot) float64 {
	if s.FreeFlowSpeed <= 0 {
		return 0.5
	}
	return min(max(1-s.CurrentSpeed/s.FreeFlowSpeed, 0), 1)
}

// TrafficCollector samples traffic flow at named locations and hands each
// batch to every configured sink.
type TrafficCollector struct {
	flow  ports.TrafficFlowProvider
	sinks []ports.TrafficRecordSink
	log   *zap.Logger

	// Pause between locations keeps the provider's rate limit.
	Pause   time.Duration
	now     func() time.Time
	batchID func() string
}

func NewTrafficCollector(flow ports.TrafficFlowProvider, log *zap.Logger, sinks ...ports.TrafficRecordSink) *TrafficCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrafficCollector{
		flow:    flow,
		sinks:   sinks,
		log:     log,
		Pause:   time.Second,
		now:     time.Now,
		batchID: func() string { return uuid.NewString() },
	}
}

// CollectOnce samples every location once. Locations whose flow lookup fails
// are skipped. Sink errors are joined and returned with the records.
func (c *TrafficCollector) CollectOnce(ctx context.Context, locations []domain.NamedLocation) ([]domain.TrafficRecord, error) {
	batch := c.batchID()
	records := make([]domain.TrafficRecord, 0, len(locations))

	for i, loc := range locations {
		if i > 0 && c.Pause > 0 {
			select {
			case <-ctx.Done():
				return records, ctx.Err()
			case <-time.After(c.Pause):
			}
		}

		snap, err := c.flow.Flow(ctx, loc.Coordinate)
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			c.log.Warn("traffic sample failed", zap.String("location", loc.Name), zap.Error(err))
			continue
		}
		records = append(records, c.record(batch, loc, snap))
	}

	if len(records) == 0 {
		return records, nil
	}

	var errs []error
	for _, sink := range c.sinks {
		if err := sink.SaveRecords(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return records, fmt.Errorf("collect traffic: %w", err)
	}

	c.log.Info("traffic batch collected",
		zap.String("batch_id", batch),
		zap.Int("records", len(records)),
		zap.Int("locations", len(locations)))
	return records, nil
}

// Run collects immediately and then on every interval tick until ctx ends.
func (c *TrafficCollector) Run(ctx context.Context, locations []domain.NamedLocation, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("collect traffic: interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.CollectOnce(ctx, locations); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("traffic batch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *TrafficCollector) record(batch string, loc domain.NamedLocation, s domain.TrafficSnapshot) domain.TrafficRecord {
	now := c.now()
	wd := now.Weekday()
	return domain.TrafficRecord{
		BatchID:            batch,
		CollectedAt:        now,
		LocationName:       loc.Name,
		Coordinate:         loc.Coordinate,
		Hour:               now.Hour(),
		DayOfWeek:          int(wd),
		IsWeekend:          wd == time.Saturday || wd == time.Sunday,
		CurrentSpeed:       s.CurrentSpeed,
		FreeFlowSpeed:      s.FreeFlowSpeed,
		CurrentTravelTime:  s.CurrentTravelTime,
		FreeFlowTravelTime: s.FreeFlowTravelTime,
		Confidence:         s.Confidence,
		CongestionLevel:    s.CongestionLevel(),
		CongestionIndex:    CongestionIndex(s),
	}
}
