package analytics

import (
	"sort"

	"github.com/radiusdt/vector-insights/internal/models"
)

// Performer is one row of the top-performers ranking.
type Performer struct {
	InfluencerID  string          `json:"influencer_id"`
	Name          string          `json:"name"`
	Platform      models.Platform `json:"platform"`
	Category      string          `json:"category"`
	FollowerCount int64           `json:"follower_count"`
	Revenue       float64         `json:"revenue"`
	Orders        int64           `json:"orders"`

	// Post-derived columns; zero-valued when the snapshot carries no posts
	// for the influencer.
	Reach          int64   `json:"reach,omitempty"`
	Likes          int64   `json:"likes,omitempty"`
	Comments       int64   `json:"comments,omitempty"`
	EngagementRate float64 `json:"engagement_rate"`

	// Nil means undefined: the denominator was zero or the join found no
	// matching row. A nil is deliberately distinct from a real zero.
	RevenuePerFollower *float64 `json:"revenue_per_follower"`
	OrdersPerPost      *float64 `json:"orders_per_post"`
}

// PoorPerformer is one row of the underperformer report.
type PoorPerformer struct {
	InfluencerID string          `json:"influencer_id"`
	Name         string          `json:"name"`
	Platform     models.Platform `json:"platform"`
	Revenue      float64         `json:"revenue"`
	Orders       int64           `json:"orders"`
	Cost         float64         `json:"cost"`
	ROI          float64         `json:"roi"`
	Reason       string          `json:"reason"`
}

// Poor-performance reasons, in classification priority order.
const (
	ReasonLowRevenue     = "Low revenue generation"
	ReasonLowOrders      = "Low order conversion"
	ReasonVeryLowROI     = "Very low ROI"
	ReasonBelowBenchmark = "Below benchmark ROI"
)

type influencerTotals struct {
	id      string
	revenue float64
	orders  int64
}

// groupTracking sums revenue and orders per influencer, preserving nothing
// of the input order; callers sort.
func groupTracking(tracking []models.TrackingRecord) []influencerTotals {
	byID := make(map[string]*influencerTotals)
	for _, tr := range tracking {
		t, ok := byID[tr.InfluencerID]
		if !ok {
			t = &influencerTotals{id: tr.InfluencerID}
			byID[tr.InfluencerID] = t
		}
		t.revenue += tr.Revenue
		t.orders += tr.Orders
	}
	out := make([]influencerTotals, 0, len(byID))
	for _, t := range byID {
		out = append(out, *t)
	}
	return out
}

// TopPerformers ranks influencers by attributed revenue, descending, ties
// broken by ascending influencer id. limit <= 0 falls back to the
// configured default.
func (e *Engine) TopPerformers(ds models.Dataset, limit int) []Performer {
	if limit <= 0 {
		limit = e.cfg.TopLimit
	}
	if len(ds.Tracking) == 0 || len(ds.Influencers) == 0 {
		return []Performer{}
	}

	totals := groupTracking(ds.Tracking)
	infIdx := ds.InfluencerByID()

	type postTotals struct {
		reach, likes, comments int64
	}
	var postIdx map[string]postTotals
	if len(ds.Posts) > 0 {
		postIdx = make(map[string]postTotals)
		for _, p := range ds.Posts {
			pt := postIdx[p.InfluencerID]
			pt.reach += p.Reach
			pt.likes += p.Likes
			pt.comments += p.Comments
			postIdx[p.InfluencerID] = pt
		}
	}

	performers := make([]Performer, 0, len(totals))
	for _, t := range totals {
		perf := Performer{
			InfluencerID: t.id,
			Revenue:      t.revenue,
			Orders:       t.orders,
		}

		inf, matched := infIdx[t.id]
		if matched {
			perf.Name = inf.Name
			perf.Platform = inf.Platform
			perf.Category = inf.Category
			perf.FollowerCount = inf.FollowerCount
		}

		var hasPosts bool
		if postIdx != nil {
			var pt postTotals
			pt, hasPosts = postIdx[t.id]
			if hasPosts {
				perf.Reach = pt.reach
				perf.Likes = pt.likes
				perf.Comments = pt.comments
				if pt.reach > 0 {
					perf.EngagementRate = float64(pt.likes+pt.comments) / float64(pt.reach) * 100
				}
			}
		}

		if matched && perf.FollowerCount > 0 {
			v := perf.Revenue / float64(perf.FollowerCount)
			perf.RevenuePerFollower = &v
		}
		if hasPosts && perf.Reach > 0 {
			v := float64(perf.Orders) / float64(perf.Reach)
			perf.OrdersPerPost = &v
		}

		performers = append(performers, perf)
	}

	sort.Slice(performers, func(i, j int) bool {
		if performers[i].Revenue != performers[j].Revenue {
			return performers[i].Revenue > performers[j].Revenue
		}
		return performers[i].InfluencerID < performers[j].InfluencerID
	})

	if len(performers) > limit {
		performers = performers[:limit]
	}
	return performers
}

// PoorPerformers reports influencers whose ROI falls below the benchmark,
// worst first. Cost is always the fixed-ratio model here, independent of
// payout data; the two cost call sites in this package differ on purpose.
func (e *Engine) PoorPerformers(ds models.Dataset) []PoorPerformer {
	if len(ds.Tracking) == 0 || len(ds.Influencers) == 0 {
		return []PoorPerformer{}
	}

	totals := groupTracking(ds.Tracking)
	infIdx := ds.InfluencerByID()

	poor := make([]PoorPerformer, 0)
	for _, t := range totals {
		cost := t.revenue * e.cfg.CostRatio
		roi := roiPercent(t.revenue, cost)
		if roi >= e.cfg.BenchmarkROI {
			continue
		}

		p := PoorPerformer{
			InfluencerID: t.id,
			Revenue:      t.revenue,
			Orders:       t.orders,
			Cost:         cost,
			ROI:          roi,
			Reason:       classifyPoorReason(t.revenue, t.orders, roi),
		}
		if inf, ok := infIdx[t.id]; ok {
			p.Name = inf.Name
			p.Platform = inf.Platform
		}
		poor = append(poor, p)
	}

	sort.Slice(poor, func(i, j int) bool {
		if poor[i].ROI != poor[j].ROI {
			return poor[i].ROI < poor[j].ROI
		}
		return poor[i].InfluencerID < poor[j].InfluencerID
	})
	return poor
}

// classifyPoorReason picks the first matching rule; order matters.
func classifyPoorReason(revenue float64, orders int64, roi float64) string {
	switch {
	case revenue < 1000:
		return ReasonLowRevenue
	case orders < 10:
		return ReasonLowOrders
	case roi < 50:
		return ReasonVeryLowROI
	default:
		return ReasonBelowBenchmark
	}
}
