package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/radiusdt/vector-insights/internal/models"
)

// PostgresDatasetRepo persists the four campaign tables in PostgreSQL.
type PostgresDatasetRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresDatasetRepo creates a repo over an existing connection pool.
func NewPostgresDatasetRepo(pool *pgxpool.Pool) *PostgresDatasetRepo {
	return &PostgresDatasetRepo{pool: pool}
}

// InitSchema creates the campaign tables if they do not exist.
func (r *PostgresDatasetRepo) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS influencers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			follower_count BIGINT NOT NULL DEFAULT 0,
			platform TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			influencer_id TEXT NOT NULL,
			platform TEXT NOT NULL DEFAULT '',
			date DATE,
			url TEXT NOT NULL DEFAULT '',
			caption TEXT NOT NULL DEFAULT '',
			reach BIGINT NOT NULL DEFAULT 0,
			likes BIGINT NOT NULL DEFAULT 0,
			comments BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tracking_records (
			source TEXT NOT NULL DEFAULT '',
			campaign TEXT NOT NULL DEFAULT '',
			influencer_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			product TEXT NOT NULL DEFAULT '',
			date DATE,
			orders BIGINT NOT NULL DEFAULT 0,
			revenue DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS payout_records (
			influencer_id TEXT NOT NULL,
			basis TEXT NOT NULL,
			rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			orders BIGINT NOT NULL DEFAULT 0,
			total_payout DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_influencer ON posts(influencer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_influencer ON tracking_records(influencer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_date ON tracking_records(date)`,
	}
	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

// Load reads all four tables into a snapshot.
func (r *PostgresDatasetRepo) Load(ctx context.Context) (models.Dataset, error) {
	var ds models.Dataset

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category, gender, follower_count, platform FROM influencers`)
	if err != nil {
		return ds, fmt.Errorf("failed to load influencers: %w", err)
	}
	for rows.Next() {
		var inf models.Influencer
		var platform string
		if err := rows.Scan(&inf.ID, &inf.Name, &inf.Category, &inf.Gender,
			&inf.FollowerCount, &platform); err != nil {
			rows.Close()
			return ds, fmt.Errorf("failed to scan influencer: %w", err)
		}
		inf.Platform = models.Platform(platform)
		ds.Influencers = append(ds.Influencers, inf)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ds, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT influencer_id, platform, date, url, caption, reach, likes, comments FROM posts`)
	if err != nil {
		return ds, fmt.Errorf("failed to load posts: %w", err)
	}
	for rows.Next() {
		var p models.Post
		var platform string
		var date time.Time
		if err := rows.Scan(&p.InfluencerID, &platform, &date, &p.URL,
			&p.Caption, &p.Reach, &p.Likes, &p.Comments); err != nil {
			rows.Close()
			return ds, fmt.Errorf("failed to scan post: %w", err)
		}
		p.Platform = models.Platform(platform)
		p.Date = models.Date{Time: date}
		ds.Posts = append(ds.Posts, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ds, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT source, campaign, influencer_id, user_id, product, date, orders, revenue FROM tracking_records`)
	if err != nil {
		return ds, fmt.Errorf("failed to load tracking records: %w", err)
	}
	for rows.Next() {
		var tr models.TrackingRecord
		var date time.Time
		if err := rows.Scan(&tr.Source, &tr.Campaign, &tr.InfluencerID, &tr.UserID,
			&tr.Product, &date, &tr.Orders, &tr.Revenue); err != nil {
			rows.Close()
			return ds, fmt.Errorf("failed to scan tracking record: %w", err)
		}
		tr.Date = models.Date{Time: date}
		ds.Tracking = append(ds.Tracking, tr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ds, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT influencer_id, basis, rate, orders, total_payout FROM payout_records`)
	if err != nil {
		return ds, fmt.Errorf("failed to load payout records: %w", err)
	}
	for rows.Next() {
		var pr models.PayoutRecord
		var basis string
		if err := rows.Scan(&pr.InfluencerID, &basis, &pr.Rate,
			&pr.Orders, &pr.TotalPayout); err != nil {
			rows.Close()
			return ds, fmt.Errorf("failed to scan payout record: %w", err)
		}
		pr.Basis = models.PayoutBasis(basis)
		ds.Payouts = append(ds.Payouts, pr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ds, err
	}

	return ds, nil
}

// Replace swaps the stored dataset in one transaction: truncate all four
// tables, then bulk-load the new rows with CopyFrom.
func (r *PostgresDatasetRepo) Replace(ctx context.Context, ds models.Dataset) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`TRUNCATE influencers, posts, tracking_records, payout_records`); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	if len(ds.Influencers) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"influencers"},
			[]string{"id", "name", "category", "gender", "follower_count", "platform"},
			pgx.CopyFromSlice(len(ds.Influencers), func(i int) ([]any, error) {
				inf := ds.Influencers[i]
				return []any{inf.ID, inf.Name, inf.Category, inf.Gender,
					inf.FollowerCount, string(inf.Platform)}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy influencers: %w", err)
		}
	}

	if len(ds.Posts) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"posts"},
			[]string{"influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments"},
			pgx.CopyFromSlice(len(ds.Posts), func(i int) ([]any, error) {
				p := ds.Posts[i]
				return []any{p.InfluencerID, string(p.Platform), p.Date.Time, p.URL,
					p.Caption, p.Reach, p.Likes, p.Comments}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy posts: %w", err)
		}
	}

	if len(ds.Tracking) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"tracking_records"},
			[]string{"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue"},
			pgx.CopyFromSlice(len(ds.Tracking), func(i int) ([]any, error) {
				tr := ds.Tracking[i]
				return []any{tr.Source, tr.Campaign, tr.InfluencerID, tr.UserID,
					tr.Product, tr.Date.Time, tr.Orders, tr.Revenue}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy tracking records: %w", err)
		}
	}

	if len(ds.Payouts) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"payout_records"},
			[]string{"influencer_id", "basis", "rate", "orders", "total_payout"},
			pgx.CopyFromSlice(len(ds.Payouts), func(i int) ([]any, error) {
				pr := ds.Payouts[i]
				return []any{pr.InfluencerID, string(pr.Basis), pr.Rate,
					pr.Orders, pr.TotalPayout}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to copy payout records: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Counts reports row counts per table.
func (r *PostgresDatasetRepo) Counts(ctx context.Context) (models.Counts, error) {
	var c models.Counts
	row := r.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM influencers),
		(SELECT COUNT(*) FROM posts),
		(SELECT COUNT(*) FROM tracking_records),
		(SELECT COUNT(*) FROM payout_records)`)
	if err := row.Scan(&c.Influencers, &c.Posts, &c.Tracking, &c.Payouts); err != nil {
		return c, fmt.Errorf("failed to count rows: %w", err)
	}
	return c, nil
}
