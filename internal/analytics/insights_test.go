package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightsDataset() models.Dataset {
	return models.Dataset{
		Influencers: []models.Influencer{
			{ID: "inf-1", Name: "Asha", Category: "Fitness", Platform: models.PlatformInstagram, FollowerCount: 1000},
			{ID: "inf-2", Name: "Bela", Category: "Fitness", Platform: models.PlatformInstagram, FollowerCount: 3000},
			{ID: "inf-3", Name: "Chen", Category: "Tech", Platform: models.PlatformYouTube, FollowerCount: 5000},
		},
		Posts: []models.Post{
			{InfluencerID: "inf-1", Platform: models.PlatformInstagram, Date: models.NewDate(2024, time.May, 1), Reach: 1000, Likes: 90, Comments: 10},
			{InfluencerID: "inf-3", Platform: models.PlatformYouTube, Date: models.NewDate(2024, time.May, 2), Reach: 2000, Likes: 30, Comments: 10},
		},
		Tracking: []models.TrackingRecord{
			{InfluencerID: "inf-1", Campaign: "GlowUp", Date: models.NewDate(2024, time.May, 1), Orders: 10, Revenue: 1000},
			{InfluencerID: "inf-2", Campaign: "GlowUp", Date: models.NewDate(2024, time.May, 2), Orders: 20, Revenue: 3000},
			{InfluencerID: "inf-3", Campaign: "TechDrop", Date: models.NewDate(2024, time.May, 3), Orders: 5, Revenue: 2000},
		},
	}
}

func TestGenerateInsights(t *testing.T) {
	e := testEngine()

	t.Run("all sections populated from one snapshot", func(t *testing.T) {
		report := e.GenerateInsights(context.Background(), insightsDataset())

		assert.Len(t, report.TopInfluencers.ByRevenue, 3)
		assert.Len(t, report.TopInfluencers.ByROI, 3)
		assert.Len(t, report.PlatformAnalysis, 2)
		assert.Len(t, report.CategoryAnalysis, 2)
		assert.Len(t, report.Trends.Daily, 3)
		assert.Empty(t, report.PoorPerformers)
	})

	t.Run("empty dataset degrades to empty sections", func(t *testing.T) {
		report := e.GenerateInsights(context.Background(), models.Dataset{})

		assert.Empty(t, report.TopInfluencers.ByRevenue)
		assert.Empty(t, report.TopInfluencers.ByROI)
		assert.Empty(t, report.PlatformAnalysis)
		assert.Empty(t, report.CategoryAnalysis)
		assert.Empty(t, report.PoorPerformers)
		assert.Empty(t, report.Trends.Daily)
		assert.Empty(t, report.Trends.Weekly)
	})
}

func TestAnalyzeTopInfluencers(t *testing.T) {
	e := testEngine()

	t.Run("by_revenue sorted descending with joined attributes", func(t *testing.T) {
		got := e.analyzeTopInfluencers(insightsDataset())
		require.Len(t, got.ByRevenue, 3)

		assert.Equal(t, "inf-2", got.ByRevenue[0].InfluencerID)
		assert.Equal(t, "Bela", got.ByRevenue[0].Name)
		assert.Equal(t, models.PlatformInstagram, got.ByRevenue[0].Platform)
		assert.Equal(t, 3000.0, got.ByRevenue[0].Revenue)
		assert.Equal(t, 750.0, got.ByRevenue[0].Cost)
		assert.InDelta(t, 300.0, got.ByRevenue[0].ROI, 1e-9)

		assert.Equal(t, "inf-3", got.ByRevenue[1].InfluencerID)
		assert.Equal(t, "inf-1", got.ByRevenue[2].InfluencerID)
	})

	t.Run("by_roi breaks equal ratios by ascending id", func(t *testing.T) {
		// Fixed-ratio cost makes every ROI 300% here, so the list is
		// effectively id-ordered.
		got := e.analyzeTopInfluencers(insightsDataset())
		require.Len(t, got.ByROI, 3)
		assert.Equal(t, "inf-1", got.ByROI[0].InfluencerID)
		assert.Equal(t, "inf-2", got.ByROI[1].InfluencerID)
		assert.Equal(t, "inf-3", got.ByROI[2].InfluencerID)
	})

	t.Run("lists truncate at the configured limit", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TopLimit = 2
		small := NewEngine(cfg, nil)

		got := small.analyzeTopInfluencers(insightsDataset())
		assert.Len(t, got.ByRevenue, 2)
		assert.Len(t, got.ByROI, 2)
	})

	t.Run("unknown influencer keeps its id but no name", func(t *testing.T) {
		ds := models.Dataset{
			Tracking: []models.TrackingRecord{{InfluencerID: "ghost", Revenue: 100}},
		}

		got := e.analyzeTopInfluencers(ds)
		require.Len(t, got.ByRevenue, 1)
		assert.Equal(t, "ghost", got.ByRevenue[0].InfluencerID)
		assert.Empty(t, got.ByRevenue[0].Name)
	})
}

func TestAnalyzePlatforms(t *testing.T) {
	e := testEngine()

	t.Run("rolls up revenue and distinct influencers per platform", func(t *testing.T) {
		got := e.analyzePlatforms(insightsDataset())
		require.Len(t, got, 2)

		// Sorted by platform name: Instagram before YouTube.
		ig := got[0]
		assert.Equal(t, models.PlatformInstagram, ig.Platform)
		assert.Equal(t, 4000.0, ig.TotalRevenue)
		assert.Equal(t, int64(30), ig.TotalOrders)
		assert.Equal(t, 2, ig.InfluencerCount)
		assert.Equal(t, 2000.0, ig.AvgRevenuePerInfluencer)
		// Engagement from Instagram posts: 100 / 1000.
		assert.InDelta(t, 10.0, ig.AvgEngagementRate, 1e-9)
		assert.Equal(t, 1000.0, ig.EstimatedCost)
		assert.InDelta(t, 300.0, ig.AvgROI, 1e-9)

		yt := got[1]
		assert.Equal(t, models.PlatformYouTube, yt.Platform)
		assert.Equal(t, 2000.0, yt.TotalRevenue)
		assert.InDelta(t, 2.0, yt.AvgEngagementRate, 1e-9)
	})

	t.Run("tracking rows without a known influencer are skipped", func(t *testing.T) {
		ds := insightsDataset()
		ds.Tracking = append(ds.Tracking, models.TrackingRecord{InfluencerID: "ghost", Revenue: 99999})

		got := e.analyzePlatforms(ds)
		var total float64
		for _, pi := range got {
			total += pi.TotalRevenue
		}
		assert.Equal(t, 6000.0, total)
	})

	t.Run("requires both influencers and tracking", func(t *testing.T) {
		assert.Empty(t, e.analyzePlatforms(models.Dataset{}))
		assert.Empty(t, e.analyzePlatforms(models.Dataset{
			Tracking: []models.TrackingRecord{{InfluencerID: "x", Revenue: 1}},
		}))
	})
}

func TestAnalyzeCategories(t *testing.T) {
	e := testEngine()

	t.Run("rolls up roster and revenue per category", func(t *testing.T) {
		got := e.analyzeCategories(insightsDataset())
		require.Len(t, got, 2)

		// Sorted by category name: Fitness before Tech.
		fit := got[0]
		assert.Equal(t, "Fitness", fit.Category)
		assert.Equal(t, 2, fit.InfluencerCount)
		assert.Equal(t, 2, fit.TotalPosts)
		assert.Equal(t, int64(4000), fit.TotalFollowers)
		assert.Equal(t, 2000.0, fit.AvgFollowerCount)
		assert.Equal(t, 4000.0, fit.Revenue)
		assert.Equal(t, int64(30), fit.Orders)
		assert.Equal(t, 2000.0, fit.AvgRevenuePerPost)
		assert.Equal(t, 1000.0, fit.EstimatedCost)
		assert.InDelta(t, 300.0, fit.AvgROI, 1e-9)

		tech := got[1]
		assert.Equal(t, "Tech", tech.Category)
		assert.Equal(t, 1, tech.InfluencerCount)
		assert.Equal(t, 2000.0, tech.Revenue)
	})

	t.Run("categories without tracking keep roster stats with zero revenue", func(t *testing.T) {
		ds := models.Dataset{
			Influencers: []models.Influencer{
				{ID: "inf-1", Category: "Travel", FollowerCount: 500},
			},
		}

		got := e.analyzeCategories(ds)
		require.Len(t, got, 1)
		assert.Equal(t, "Travel", got[0].Category)
		assert.Equal(t, int64(500), got[0].TotalFollowers)
		assert.Zero(t, got[0].Revenue)
		assert.Zero(t, got[0].AvgROI)
	})

	t.Run("empty roster yields empty", func(t *testing.T) {
		assert.Empty(t, e.analyzeCategories(models.Dataset{}))
	})
}
