package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReportCache keeps generated insight reports in Redis so repeated requests
// for the same filter selection do not recompute the full report.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache creates a report cache with the given TTL.
func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

// Key builds the cache key for a filter selection.
func (c *ReportCache) Key(f Filter) string {
	dates := ""
	if len(f.DateRange) == 2 {
		dates = f.DateRange[0].String() + ":" + f.DateRange[1].String()
	}
	return fmt.Sprintf("insights:%s:%s:%s:%s", f.Platform, f.Brand, f.Category, dates)
}

// Get returns the cached report for a filter, or false on miss. Redis
// errors are logged and reported as misses; the cache never fails a read.
func (c *ReportCache) Get(ctx context.Context, f Filter) (*InsightReport, bool) {
	data, err := c.client.Get(ctx, c.Key(f)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("report cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var report InsightReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Warn("report cache entry corrupt, dropping", zap.Error(err))
		c.client.Del(ctx, c.Key(f))
		return nil, false
	}
	return &report, true
}

// Set stores a report under the filter's key.
func (c *ReportCache) Set(ctx context.Context, f Filter, report *InsightReport) {
	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("report cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.Key(f), data, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache write failed", zap.Error(err))
	}
}

// Invalidate removes every cached report. Called when the dataset changes.
func (c *ReportCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, "insights:*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
