package storage

import (
	"context"
	"sync"

	"github.com/radiusdt/vector-insights/internal/models"
)

// InMemoryDatasetRepo holds the dataset in process memory. It is the
// fallback when PostgreSQL is unavailable and the default in tests.
type InMemoryDatasetRepo struct {
	mu sync.RWMutex
	ds models.Dataset
}

// NewInMemoryDatasetRepo creates an empty in-memory repo.
func NewInMemoryDatasetRepo() *InMemoryDatasetRepo {
	return &InMemoryDatasetRepo{}
}

// Load returns a snapshot copy; callers cannot alias repo state.
func (r *InMemoryDatasetRepo) Load(ctx context.Context) (models.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ds.Clone(), nil
}

// Replace swaps in a copy of the given dataset.
func (r *InMemoryDatasetRepo) Replace(ctx context.Context, ds models.Dataset) error {
	clone := ds.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ds = clone
	return nil
}

// Counts reports row counts per table.
func (r *InMemoryDatasetRepo) Counts(ctx context.Context) (models.Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ds.Counts(), nil
}
