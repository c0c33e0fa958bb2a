package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/radiusdt/vector-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendations(t *testing.T) {
	e := testEngine()

	t.Run("no tracking asks for data", func(t *testing.T) {
		got := e.Recommendations(models.Dataset{})
		require.Len(t, got, 1)
		assert.Contains(t, got[0], "Upload campaign data")
	})

	t.Run("derives suggestions from the snapshot", func(t *testing.T) {
		got := e.Recommendations(insightsDataset())

		// Instagram leads on revenue, engagement averages 6%, order value
		// averages under 500, and only two campaigns ran.
		assert.Contains(t, got, "Focus investment on Instagram as it generates the highest revenue (4000)")
		assert.Contains(t, got, "High engagement rates detected! Leverage successful content formats")
		assert.Contains(t, got, "Focus on promoting higher-value products to increase average order value")
		assert.Contains(t, got, "Consider diversifying campaigns across more brands/products to reduce risk")
	})

	t.Run("low roi flags cost optimization", func(t *testing.T) {
		ds := models.Dataset{
			Tracking: []models.TrackingRecord{{InfluencerID: "inf-1", Revenue: 1, Orders: 1}},
		}

		got := e.Recommendations(ds)
		assert.Contains(t, got,
			"Consider optimizing campaign costs as ROI is below industry standards (target: >200%)")
	})

	t.Run("seasonal peak needs more than thirty rows", func(t *testing.T) {
		var ds models.Dataset
		for i := 0; i < 20; i++ {
			ds.Tracking = append(ds.Tracking, models.TrackingRecord{
				InfluencerID: "inf-1",
				Campaign:     fmt.Sprintf("c-%d", i),
				Date:         models.NewDate(2024, time.May, 1+i),
				Orders:       1,
				Revenue:      1000,
			})
		}
		for i := 0; i < 12; i++ {
			ds.Tracking = append(ds.Tracking, models.TrackingRecord{
				InfluencerID: "inf-1",
				Campaign:     fmt.Sprintf("c-%d", 20+i),
				Date:         models.NewDate(2024, time.November, 1+i),
				Orders:       1,
				Revenue:      5000,
			})
		}

		got := e.Recommendations(ds)
		assert.Contains(t, got,
			"Month 11 shows peak performance - plan major campaigns during similar periods")
	})

	t.Run("nothing noteworthy falls back to generic guidance", func(t *testing.T) {
		// ROI sits exactly at 300%, order value in the healthy band, three
		// campaigns, no roster and no posts.
		ds := models.Dataset{
			Tracking: []models.TrackingRecord{
				{InfluencerID: "inf-1", Campaign: "a", Revenue: 1000, Orders: 1},
				{InfluencerID: "inf-1", Campaign: "b", Revenue: 1000, Orders: 1},
				{InfluencerID: "inf-1", Campaign: "c", Revenue: 1000, Orders: 1},
			},
		}

		got := e.Recommendations(ds)
		require.Len(t, got, 4)
		assert.Contains(t, got, "Continue monitoring campaign performance regularly")
	})

	t.Run("never returns more than six", func(t *testing.T) {
		assert.LessOrEqual(t, len(e.Recommendations(insightsDataset())), maxRecommendations)
	})
}
