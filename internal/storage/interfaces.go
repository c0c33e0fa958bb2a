package storage

import (
	"context"

	"github.com/radiusdt/vector-insights/internal/models"
)

// DatasetRepo supplies and accepts complete snapshots of the four campaign
// tables. The engine only ever sees the snapshot a repo hands out; repos own
// persistence, the engine owns computation.
type DatasetRepo interface {
	// Load returns a snapshot that the caller may hold and read freely.
	Load(ctx context.Context) (models.Dataset, error)

	// Replace swaps in a new dataset wholesale.
	Replace(ctx context.Context, ds models.Dataset) error

	// Counts reports row counts per table without copying the data.
	Counts(ctx context.Context) (models.Counts, error)
}
