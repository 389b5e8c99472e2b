package ports

import (
	"context"
	"mobility-route-service/internal/domain"
)

// Port: a destination for collected traffic samples (database, message bus).
type TrafficRecordSink interface {
	SaveRecords(ctx context.Context, records []domain.TrafficRecord) error
}
