package ports

import (
	"context"
	"mobility-route-service/internal/domain"
)

// Contract for resolving a free-text place name to a coordinate.
type Geocoder interface {
	// Return the single best match. Unresolvable names yield a
	// *domain.GeocodingError wrapping domain.ErrNotFound.
	Geocode(ctx context.Context, name string) (domain.Coordinate, error)
}

// Persistent place name -> coordinate cache consulted before geocoding.
type GeocodeCache interface {
	GetMany(ctx context.Context, names []string) (map[string]domain.Coordinate, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinate) error
}
