package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/radiusdt/vector-insights/internal/models"
	"go.uber.org/zap"
)

// TrackingArchive appends attribution rows to ClickHouse for long-term
// analytical storage. The online engine never reads from it; warehouse
// queries do.
type TrackingArchive struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewTrackingArchive creates an archive over an open ClickHouse connection.
func NewTrackingArchive(conn driver.Conn, logger *zap.Logger) *TrackingArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingArchive{conn: conn, logger: logger}
}

// InitSchema creates the archive table if it does not exist.
func (a *TrackingArchive) InitSchema(ctx context.Context) error {
	err := a.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tracking_archive (
			source        String,
			campaign      String,
			influencer_id String,
			user_id       String,
			product       String,
			date          Date,
			orders        Int64,
			revenue       Float64
		) ENGINE = MergeTree()
		ORDER BY (date, influencer_id)`)
	if err != nil {
		return fmt.Errorf("failed to init tracking archive schema: %w", err)
	}
	return nil
}

// Archive appends the given tracking rows in one batch.
func (a *TrackingArchive) Archive(ctx context.Context, records []models.TrackingRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := a.conn.PrepareBatch(ctx, `INSERT INTO tracking_archive
		(source, campaign, influencer_id, user_id, product, date, orders, revenue)`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive batch: %w", err)
	}

	for _, tr := range records {
		if err := batch.Append(
			tr.Source,
			tr.Campaign,
			tr.InfluencerID,
			tr.UserID,
			tr.Product,
			tr.Date.Time,
			tr.Orders,
			tr.Revenue,
		); err != nil {
			return fmt.Errorf("failed to append archive row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send archive batch: %w", err)
	}

	a.logger.Debug("tracking rows archived", zap.Int("rows", len(records)))
	return nil
}
