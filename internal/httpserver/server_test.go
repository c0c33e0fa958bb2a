package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/radiusdt/vector-insights/internal/analytics"
	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth:      config.AuthConfig{Enabled: false},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Metrics:   config.MetricsConfig{Enabled: false},
		Cache:     config.CacheConfig{Enabled: false},
		Analytics: config.AnalyticsConfig{
			BenchmarkROI:  200,
			BenchmarkROAS: 4.0,
			CostRatio:     0.25,
			BaselineDays:  30,
			TopLimit:      10,
		},
	}
}

func testServer(t *testing.T) http.Handler {
	t.Helper()
	return NewServer(&Dependencies{
		Config: testConfig(),
		Logger: zap.NewNop(),
	})
}

const datasetJSON = `{
	"influencers": [
		{"ID": "inf-1", "name": "Asha", "category": "Fitness", "platform": "Instagram", "follower_count": 1000},
		{"ID": "inf-2", "name": "Bela", "category": "Tech", "platform": "YouTube", "follower_count": 2000}
	],
	"posts": [
		{"influencer_id": "inf-1", "platform": "Instagram", "date": "2024-05-01", "reach": 1000, "likes": 90, "comments": 10}
	],
	"tracking": [
		{"influencer_id": "inf-1", "campaign": "GlowUp", "date": "2024-05-01", "orders": 50, "revenue": 5000},
		{"influencer_id": "inf-2", "campaign": "TechDrop", "date": "2024-05-02", "orders": 20, "revenue": 3000}
	],
	"payouts": []
}`

func uploadDataset(t *testing.T, h http.Handler) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader(datasetJSON))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	h := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDatasetUpload(t *testing.T) {
	t.Run("json upload reports counts", func(t *testing.T) {
		h := testServer(t)
		req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader(datasetJSON))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"influencers":2,"posts":1,"tracking":2,"payouts":0}`, rec.Body.String())
	})

	t.Run("invalid json is rejected", func(t *testing.T) {
		h := testServer(t)
		req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader("{nope"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid influencer row is rejected", func(t *testing.T) {
		h := testServer(t)
		body := `{"influencers": [{"ID": "inf-1", "name": "Asha", "platform": "Twitch"}]}`
		req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid influencer row")
	})

	t.Run("get is not allowed", func(t *testing.T) {
		h := testServer(t)
		req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("summary reflects the stored dataset", func(t *testing.T) {
		h := testServer(t)
		uploadDataset(t, h)

		req := httptest.NewRequest(http.MethodGet, "/datasets/summary", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"influencers":2,"posts":1,"tracking":2,"payouts":0}`, rec.Body.String())
	})
}

func TestDatasetCSVUpload(t *testing.T) {
	h := testServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("influencers", "influencers.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("ID,name,category,gender,follower_count,platform\ninf-1,Asha,Fitness,F,1000,Instagram\n"))
	require.NoError(t, err)
	fw, err = mw.CreateFormFile("tracking", "tracking.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("source,campaign,influencer_id,user_id,product,date,orders,revenue\nig,GlowUp,inf-1,u-1,serum,2024-05-01,10,1000\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/datasets/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"influencers":1,"posts":0,"tracking":1,"payouts":0}`, rec.Body.String())

	t.Run("schema error surfaces as bad request", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("influencers", "influencers.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte("id,name\ninf-1,Asha\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/datasets/csv", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing required column")
	})
}

func TestROIROASEndpoint(t *testing.T) {
	h := testServer(t)
	uploadDataset(t, h)

	req := httptest.NewRequest(http.MethodGet, "/analytics/roi-roas", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got analytics.ROIMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 8000.0, got.TotalRevenue)
	assert.Equal(t, 2000.0, got.TotalCost)
	assert.InDelta(t, 300.0, got.AvgROI, 1e-9)
	assert.InDelta(t, 4.0, got.AvgROAS, 1e-9)
	assert.Equal(t, analytics.FixedRatioCost, got.CostStrategy)

	t.Run("platform filter narrows the snapshot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analytics/roi-roas?platform=Instagram", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got analytics.ROIMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 5000.0, got.TotalRevenue)
	})
}

func TestTopPerformersEndpoint(t *testing.T) {
	h := testServer(t)
	uploadDataset(t, h)

	req := httptest.NewRequest(http.MethodGet, "/analytics/top-performers?limit=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []analytics.Performer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "inf-1", got[0].InfluencerID)
	assert.Equal(t, 5000.0, got[0].Revenue)

	t.Run("invalid limit is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analytics/top-performers?limit=-1", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestInsightsEndpoint(t *testing.T) {
	h := testServer(t)
	uploadDataset(t, h)

	req := httptest.NewRequest(http.MethodGet, "/insights", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got analytics.InsightReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.TopInfluencers.ByRevenue, 2)
	assert.Len(t, got.PlatformAnalysis, 2)
	assert.Len(t, got.CategoryAnalysis, 2)
	assert.Len(t, got.Trends.Daily, 2)
}

func TestRecommendationsEndpoint(t *testing.T) {
	h := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/analytics/recommendations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got["recommendations"], 1)
	assert.Contains(t, got["recommendations"][0], "Upload campaign data")
}

func TestIncrementalROASEndpoint(t *testing.T) {
	h := testServer(t)
	uploadDataset(t, h)

	req := httptest.NewRequest(http.MethodGet, "/analytics/incremental-roas?baseline_days=7", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got, "incremental_roas")

	t.Run("invalid baseline_days is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analytics/incremental-roas?baseline_days=0", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDateRangeValidation(t *testing.T) {
	h := testServer(t)

	get := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/analytics/trends"+query, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("dates must come in pairs", func(t *testing.T) {
		rec := get("?start_date=2024-01-01")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "must be given together")
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		rec := get("?start_date=2024-02-01&end_date=2024-01-01")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ranges beyond a year are rejected", func(t *testing.T) {
		rec := get("?start_date=2023-01-01&end_date=2024-06-01")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "365")
	})

	t.Run("future end date is rejected", func(t *testing.T) {
		future := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
		rec := get(fmt.Sprintf("?start_date=2024-01-01&end_date=%s", future))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "future")
	})

	t.Run("garbled dates are rejected", func(t *testing.T) {
		rec := get("?start_date=yesterday&end_date=today")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid range passes through", func(t *testing.T) {
		rec := get("?start_date=2024-05-01&end_date=2024-05-31")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{
		Enabled:   true,
		MasterKey: "secret-key",
		SkipPaths: []string{"/health"},
	}
	h := NewServer(&Dependencies{Config: cfg, Logger: zap.NewNop()})

	t.Run("missing key is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/datasets/summary", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/datasets/summary", nil)
		req.Header.Set("X-API-Key", "nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid key passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/datasets/summary", nil)
		req.Header.Set("X-API-Key", "secret-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("skip paths bypass auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
