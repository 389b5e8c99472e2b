package ports

import (
	"context"
	"mobility-route-service/internal/domain"
)

// Contract for nearby points-of-interest search. An empty category means any.
type POISearcher interface {
	SearchPOIs(ctx context.Context, point domain.Coordinate, radiusMeters int, category string) ([]domain.POI, error)
}

// Expiring POI result cache keyed by a quantized search key.
type POICache interface {
	// Return (nil, false, nil) on a miss or an expired entry.
	Get(ctx context.Context, key string) ([]domain.POI, bool, error)
	Put(ctx context.Context, key string, pois []domain.POI) error
}
