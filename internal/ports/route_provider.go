package ports

import (
	"context"
	"mobility-route-service/internal/domain"
)

// Provider-reported figures for one route, already decoded from the wire shape.
type RouteSummary struct {
	DistanceMeters      float64
	TravelTimeSeconds   float64
	TrafficDelaySeconds float64
	Geometry            []domain.Coordinate
}

// Contract for computing one route under a strategy's request policy.
type RouteProvider interface {
	// Issue a single request. Network, status, decoding failures and an
	// empty route list are returned as *domain.ProviderError.
	Route(ctx context.Context, origin, destination domain.Coordinate, opts domain.RouteOptions) (RouteSummary, error)
}
