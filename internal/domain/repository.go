package domain

import (
	"context"
	"time"
)

// TableCache defines the interface for caching parsed dataset tables.
// Cached tables are shared between concurrent reports and must never be
// mutated after Set.
type TableCache interface {
	Get(ctx context.Context, key string) (*DatasetTable, error)
	Set(ctx context.Context, key string, table *DatasetTable, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TableFetcher defines the interface for retrieving a reference table from
// its source.
type TableFetcher interface {
	FetchTable(ctx context.Context, url string) (*DatasetTable, error)
}

// SnapshotProvider builds the immutable reference-data snapshot a report
// resolves against.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*ReferenceData, error)
}
