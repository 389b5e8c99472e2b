package ports

import (
	"context"
	"mobility-route-service/internal/domain"
)

// Contract for reading current traffic flow at a point.
type TrafficFlowProvider interface {
	Flow(ctx context.Context, point domain.Coordinate) (domain.TrafficSnapshot, error)
}

// Contract for listing traffic incidents inside a bounding box.
type IncidentProvider interface {
	Incidents(ctx context.Context, bbox domain.BBox) ([]domain.Incident, error)
}
