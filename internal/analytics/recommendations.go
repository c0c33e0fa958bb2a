package analytics

import (
	"fmt"
	"sort"

	"github.com/radiusdt/vector-insights/internal/models"
)

const maxRecommendations = 6

// Recommendations derives up to six actionable suggestions from a snapshot.
// With no tracking data it asks for data; with nothing noteworthy it falls
// back to generic guidance.
func (e *Engine) Recommendations(ds models.Dataset) []string {
	if len(ds.Tracking) == 0 {
		return []string{"Upload campaign data to generate personalized recommendations."}
	}

	recs := make([]string, 0, maxRecommendations)

	// Highest-revenue platform.
	if len(ds.Influencers) > 0 {
		platforms := e.analyzePlatforms(ds)
		if len(platforms) > 0 {
			top := platforms[0]
			for _, p := range platforms[1:] {
				if p.TotalRevenue > top.TotalRevenue {
					top = p
				}
			}
			recs = append(recs, fmt.Sprintf(
				"Focus investment on %s as it generates the highest revenue (%.0f)",
				top.Platform, top.TotalRevenue))
		}
	}

	// ROI versus industry thresholds.
	roi := e.CalculateROIROAS(ds)
	switch {
	case roi.AvgROI < 150:
		recs = append(recs, fmt.Sprintf(
			"Consider optimizing campaign costs as ROI is below industry standards (target: >%.0f%%)",
			e.cfg.BenchmarkROI))
	case roi.AvgROI > 300:
		recs = append(recs, "Excellent ROI performance! Consider scaling successful campaigns")
	}

	// Engagement across all posts.
	if len(ds.Posts) > 0 {
		var sum float64
		var n int
		for _, p := range ds.Posts {
			if p.Reach > 0 {
				sum += float64(p.Likes+p.Comments) / float64(p.Reach) * 100
				n++
			}
		}
		if n > 0 {
			avg := sum / float64(n)
			switch {
			case avg < 2:
				recs = append(recs, "Work on content strategy to improve engagement rates (currently below 2%)")
			case avg > 5:
				recs = append(recs, "High engagement rates detected! Leverage successful content formats")
			}
		}
	}

	// Average order value.
	var totalOrders int64
	var totalRevenue float64
	for _, tr := range ds.Tracking {
		totalOrders += tr.Orders
		totalRevenue += tr.Revenue
	}
	if totalOrders > 0 {
		aov := totalRevenue / float64(totalOrders)
		switch {
		case aov < 500:
			recs = append(recs, "Focus on promoting higher-value products to increase average order value")
		case aov > 2000:
			recs = append(recs, "Strong average order value! Consider expanding premium product campaigns")
		}
	}

	// Seasonal peak, once there is enough history.
	if len(ds.Tracking) > 30 {
		byMonth := make(map[int]float64)
		for _, tr := range ds.Tracking {
			byMonth[int(tr.Date.Month())] += tr.Revenue
		}
		if len(byMonth) > 1 {
			months := make([]int, 0, len(byMonth))
			for m := range byMonth {
				months = append(months, m)
			}
			sort.Ints(months)
			best := months[0]
			for _, m := range months[1:] {
				if byMonth[m] > byMonth[best] {
					best = m
				}
			}
			recs = append(recs, fmt.Sprintf(
				"Month %d shows peak performance - plan major campaigns during similar periods", best))
		}
	}

	// Campaign diversification.
	campaigns := make(map[string]struct{})
	for _, tr := range ds.Tracking {
		campaigns[tr.Campaign] = struct{}{}
	}
	if len(campaigns) < 3 {
		recs = append(recs, "Consider diversifying campaigns across more brands/products to reduce risk")
	}

	if len(recs) == 0 {
		return []string{
			"Continue monitoring campaign performance regularly",
			"Experiment with different content formats and posting schedules",
			"Consider A/B testing different influencer categories",
			"Set up automated alerts for significant performance changes",
		}
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
