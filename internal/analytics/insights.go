package analytics

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
	"go.uber.org/zap"
)

// InfluencerROI is one row of the top-influencers section.
type InfluencerROI struct {
	InfluencerID string          `json:"influencer_id"`
	Name         string          `json:"name"`
	Platform     models.Platform `json:"platform"`
	Revenue      float64         `json:"revenue"`
	Orders       int64           `json:"orders"`
	Cost         float64         `json:"cost"`
	ROI          float64         `json:"roi"`
}

// TopInfluencers holds the two independently sorted top-10 lists.
type TopInfluencers struct {
	ByRevenue []InfluencerROI `json:"by_revenue"`
	ByROI     []InfluencerROI `json:"by_roi"`
}

// PlatformInsight is the per-platform rollup.
type PlatformInsight struct {
	Platform                models.Platform `json:"platform"`
	TotalRevenue            float64         `json:"total_revenue"`
	TotalOrders             int64           `json:"total_orders"`
	InfluencerCount         int             `json:"influencer_count"`
	AvgRevenuePerInfluencer float64         `json:"avg_revenue_per_influencer"`
	AvgEngagementRate       float64         `json:"avg_engagement_rate"`
	EstimatedCost           float64         `json:"estimated_cost"`
	AvgROI                  float64         `json:"avg_roi"`
}

// CategoryInsight is the per-category rollup. TotalPosts counts influencers
// in the category, matching the historical report column of the same name.
type CategoryInsight struct {
	Category          string  `json:"category"`
	InfluencerCount   int     `json:"influencer_count"`
	TotalPosts        int     `json:"total_posts"`
	AvgFollowerCount  float64 `json:"avg_follower_count"`
	TotalFollowers    int64   `json:"total_followers"`
	Revenue           float64 `json:"revenue"`
	Orders            int64   `json:"orders"`
	AvgRevenuePerPost float64 `json:"avg_revenue_per_post"`
	EstimatedCost     float64 `json:"estimated_cost"`
	AvgROI            float64 `json:"avg_roi"`
}

// InsightReport composes every analysis section for presentation.
type InsightReport struct {
	TopInfluencers   TopInfluencers    `json:"top_influencers"`
	PlatformAnalysis []PlatformInsight `json:"platform_analysis"`
	CategoryAnalysis []CategoryInsight `json:"category_analysis"`
	PoorPerformers   []PoorPerformer   `json:"poor_performers"`
	Trends           TrendReport       `json:"trends"`
}

// GenerateInsights builds the full insight report. The five sections depend
// only on the snapshot, never on each other, so they are computed
// concurrently and joined before returning. Each section degrades to an
// empty result when its input table is empty.
func (e *Engine) GenerateInsights(ctx context.Context, ds models.Dataset) InsightReport {
	start := time.Now()
	var report InsightReport
	var wg sync.WaitGroup

	wg.Add(5)
	go func() {
		defer wg.Done()
		report.TopInfluencers = e.analyzeTopInfluencers(ds)
	}()
	go func() {
		defer wg.Done()
		report.PlatformAnalysis = e.analyzePlatforms(ds)
	}()
	go func() {
		defer wg.Done()
		report.CategoryAnalysis = e.analyzeCategories(ds)
	}()
	go func() {
		defer wg.Done()
		report.PoorPerformers = e.PoorPerformers(ds)
	}()
	go func() {
		defer wg.Done()
		report.Trends = e.AnalyzeTrends(ds)
	}()
	wg.Wait()

	e.logger.Debug("insights generated",
		zap.Int("tracking_rows", len(ds.Tracking)),
		zap.Int("influencers", len(ds.Influencers)),
		zap.Duration("duration", time.Since(start)),
	)
	return report
}

func (e *Engine) analyzeTopInfluencers(ds models.Dataset) TopInfluencers {
	empty := TopInfluencers{ByRevenue: []InfluencerROI{}, ByROI: []InfluencerROI{}}
	if len(ds.Tracking) == 0 {
		return empty
	}

	infIdx := ds.InfluencerByID()
	byID := make(map[string]*InfluencerROI)
	for _, tr := range ds.Tracking {
		row, ok := byID[tr.InfluencerID]
		if !ok {
			row = &InfluencerROI{InfluencerID: tr.InfluencerID}
			if inf, found := infIdx[tr.InfluencerID]; found {
				row.Name = inf.Name
				row.Platform = inf.Platform
			}
			byID[tr.InfluencerID] = row
		}
		row.Revenue += tr.Revenue
		row.Orders += tr.Orders
	}

	rows := make([]InfluencerROI, 0, len(byID))
	for _, row := range byID {
		row.Cost = row.Revenue * e.cfg.CostRatio
		row.ROI = roiPercent(row.Revenue, row.Cost)
		rows = append(rows, *row)
	}

	byRevenue := make([]InfluencerROI, len(rows))
	copy(byRevenue, rows)
	sort.Slice(byRevenue, func(i, j int) bool {
		if byRevenue[i].Revenue != byRevenue[j].Revenue {
			return byRevenue[i].Revenue > byRevenue[j].Revenue
		}
		return byRevenue[i].InfluencerID < byRevenue[j].InfluencerID
	})

	byROI := make([]InfluencerROI, len(rows))
	copy(byROI, rows)
	sort.Slice(byROI, func(i, j int) bool {
		if byROI[i].ROI != byROI[j].ROI {
			return byROI[i].ROI > byROI[j].ROI
		}
		return byROI[i].InfluencerID < byROI[j].InfluencerID
	})

	limit := e.cfg.TopLimit
	if len(byRevenue) > limit {
		byRevenue = byRevenue[:limit]
	}
	if len(byROI) > limit {
		byROI = byROI[:limit]
	}
	return TopInfluencers{ByRevenue: byRevenue, ByROI: byROI}
}

func (e *Engine) analyzePlatforms(ds models.Dataset) []PlatformInsight {
	if len(ds.Tracking) == 0 || len(ds.Influencers) == 0 {
		return []PlatformInsight{}
	}

	infIdx := ds.InfluencerByID()

	type platformAcc struct {
		revenue     float64
		orders      int64
		influencers map[string]struct{}
	}
	byPlatform := make(map[models.Platform]*platformAcc)
	for _, tr := range ds.Tracking {
		inf, ok := infIdx[tr.InfluencerID]
		if !ok {
			// Dangling reference: no platform to group under.
			continue
		}
		acc, found := byPlatform[inf.Platform]
		if !found {
			acc = &platformAcc{influencers: make(map[string]struct{})}
			byPlatform[inf.Platform] = acc
		}
		acc.revenue += tr.Revenue
		acc.orders += tr.Orders
		acc.influencers[tr.InfluencerID] = struct{}{}
	}

	// Engagement comes from the posts' own platform column.
	type engagementAcc struct {
		reach, likes, comments int64
	}
	engagement := make(map[models.Platform]*engagementAcc)
	for _, p := range ds.Posts {
		acc, ok := engagement[p.Platform]
		if !ok {
			acc = &engagementAcc{}
			engagement[p.Platform] = acc
		}
		acc.reach += p.Reach
		acc.likes += p.Likes
		acc.comments += p.Comments
	}

	insights := make([]PlatformInsight, 0, len(byPlatform))
	for platform, acc := range byPlatform {
		pi := PlatformInsight{
			Platform:        platform,
			TotalRevenue:    acc.revenue,
			TotalOrders:     acc.orders,
			InfluencerCount: len(acc.influencers),
		}
		if pi.InfluencerCount > 0 {
			pi.AvgRevenuePerInfluencer = round2(acc.revenue / float64(pi.InfluencerCount))
		}
		if eng, ok := engagement[platform]; ok && eng.reach > 0 {
			pi.AvgEngagementRate = float64(eng.likes+eng.comments) / float64(eng.reach) * 100
		}
		pi.EstimatedCost = acc.revenue * e.cfg.CostRatio
		pi.AvgROI = roiPercent(acc.revenue, pi.EstimatedCost)
		insights = append(insights, pi)
	}

	sort.Slice(insights, func(i, j int) bool {
		return insights[i].Platform < insights[j].Platform
	})
	return insights
}

func (e *Engine) analyzeCategories(ds models.Dataset) []CategoryInsight {
	if len(ds.Influencers) == 0 {
		return []CategoryInsight{}
	}

	type categoryAcc struct {
		count     int
		followers int64
	}
	byCategory := make(map[string]*categoryAcc)
	for _, inf := range ds.Influencers {
		acc, ok := byCategory[inf.Category]
		if !ok {
			acc = &categoryAcc{}
			byCategory[inf.Category] = acc
		}
		acc.count++
		acc.followers += inf.FollowerCount
	}

	type revenueAcc struct {
		revenue float64
		orders  int64
	}
	var revByCategory map[string]*revenueAcc
	if len(ds.Tracking) > 0 {
		infIdx := ds.InfluencerByID()
		revByCategory = make(map[string]*revenueAcc)
		for _, tr := range ds.Tracking {
			inf, ok := infIdx[tr.InfluencerID]
			if !ok {
				continue
			}
			acc, found := revByCategory[inf.Category]
			if !found {
				acc = &revenueAcc{}
				revByCategory[inf.Category] = acc
			}
			acc.revenue += tr.Revenue
			acc.orders += tr.Orders
		}
	}

	insights := make([]CategoryInsight, 0, len(byCategory))
	for category, acc := range byCategory {
		ci := CategoryInsight{
			Category:         category,
			InfluencerCount:  acc.count,
			TotalPosts:       acc.count,
			TotalFollowers:   acc.followers,
			AvgFollowerCount: round2(float64(acc.followers) / float64(acc.count)),
		}
		if revByCategory != nil {
			if rev, ok := revByCategory[category]; ok {
				ci.Revenue = rev.revenue
				ci.Orders = rev.orders
				if ci.TotalPosts > 0 {
					ci.AvgRevenuePerPost = rev.revenue / float64(ci.TotalPosts)
				}
				ci.EstimatedCost = rev.revenue * e.cfg.CostRatio
				ci.AvgROI = roiPercent(rev.revenue, ci.EstimatedCost)
			}
		}
		insights = append(insights, ci)
	}

	sort.Slice(insights, func(i, j int) bool {
		return insights[i].Category < insights[j].Category
	})
	return insights
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
