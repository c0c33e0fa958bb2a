package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/radiusdt/vector-insights/internal/analytics"
	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/radiusdt/vector-insights/internal/database"
	"github.com/radiusdt/vector-insights/internal/metrics"
	"github.com/radiusdt/vector-insights/internal/middleware"
	"github.com/radiusdt/vector-insights/internal/models"
	"github.com/radiusdt/vector-insights/internal/storage"
	"go.uber.org/zap"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB         *database.PostgresDB
	Redis      *database.RedisDB
	ClickHouse *database.ClickHouseDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server wraps HTTP handlers around the analytics engine and dataset repo.
type Server struct {
	engine  *analytics.Engine
	repo    storage.DatasetRepo
	cache   *analytics.ReportCache
	archive *storage.TrackingArchive
	logger  *zap.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	var repo storage.DatasetRepo
	if deps.DB != nil {
		repo = storage.NewPostgresDatasetRepo(deps.DB.Pool)
	} else {
		repo = storage.NewInMemoryDatasetRepo()
	}

	var cache *analytics.ReportCache
	if deps.Redis != nil && deps.Config.Cache.Enabled {
		cache = analytics.NewReportCache(deps.Redis.Client, deps.Config.Cache.TTL, deps.Logger)
	}

	var archive *storage.TrackingArchive
	if deps.ClickHouse != nil {
		archive = storage.NewTrackingArchive(deps.ClickHouse.Conn, deps.Logger)
	}

	engine := analytics.NewEngine(analytics.Config{
		BenchmarkROI:  deps.Config.Analytics.BenchmarkROI,
		BenchmarkROAS: deps.Config.Analytics.BenchmarkROAS,
		CostRatio:     deps.Config.Analytics.CostRatio,
		BaselineDays:  deps.Config.Analytics.BaselineDays,
		TopLimit:      deps.Config.Analytics.TopLimit,
	}, deps.Logger)

	s := &Server{
		engine:  engine,
		repo:    repo,
		cache:   cache,
		archive: archive,
		logger:  deps.Logger,
		config:  deps.Config,
		metrics: deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Dataset management
	mux.HandleFunc("/datasets", s.handleDatasets)
	mux.HandleFunc("/datasets/csv", s.handleDatasetCSV)
	mux.HandleFunc("/datasets/summary", s.handleDatasetSummary)

	// Analytics
	mux.HandleFunc("/analytics/roi-roas", s.handleROIROAS)
	mux.HandleFunc("/analytics/top-performers", s.handleTopPerformers)
	mux.HandleFunc("/analytics/poor-performers", s.handlePoorPerformers)
	mux.HandleFunc("/analytics/trends", s.handleTrends)
	mux.HandleFunc("/analytics/incremental-roas", s.handleIncrementalROAS)
	mux.HandleFunc("/analytics/recommendations", s.handleRecommendations)

	// Full insight report
	mux.HandleFunc("/insights", s.handleInsights)

	// Middleware chain, innermost first.
	var handler http.Handler = mux
	handler = middleware.NewAuthMiddleware(deps.Config.Auth, deps.Logger).Handler(handler)
	handler = middleware.NewRateLimitMiddleware(deps.Config.RateLimit, deps.Logger, deps.Metrics).Handler(handler)
	handler = middleware.NewRecoveryMiddleware(deps.Logger).Handler(handler)
	handler = middleware.NewLoggingMiddleware(deps.Logger).Handler(handler)
	handler = middleware.NewRequestIDMiddleware().Handler(handler)

	return handler
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Dataset Management ----

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var ds models.Dataset
	if err := json.NewDecoder(r.Body).Decode(&ds); err != nil {
		s.errorResponse(w, "invalid json", http.StatusBadRequest)
		return
	}

	for i := range ds.Influencers {
		if err := ds.Influencers[i].Validate(); err != nil {
			s.errorResponse(w, "invalid influencer row: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	for i := range ds.Payouts {
		if err := ds.Payouts[i].Validate(); err != nil {
			s.errorResponse(w, "invalid payout row: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	s.acceptDataset(w, r, ds)
}

func (s *Server) handleDatasetCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		s.errorResponse(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var influencers, posts, tracking, payouts io.Reader
	if f, _, err := r.FormFile("influencers"); err == nil {
		defer f.Close()
		influencers = f
	}
	if f, _, err := r.FormFile("posts"); err == nil {
		defer f.Close()
		posts = f
	}
	if f, _, err := r.FormFile("tracking"); err == nil {
		defer f.Close()
		tracking = f
	}
	if f, _, err := r.FormFile("payouts"); err == nil {
		defer f.Close()
		payouts = f
	}

	ds, err := storage.LoadCSV(influencers, posts, tracking, payouts)
	if err != nil {
		s.errorResponse(w, "failed to load CSV: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.acceptDataset(w, r, ds)
}

// acceptDataset replaces the stored dataset and fans the change out to the
// cache, metrics, and warehouse archive.
func (s *Server) acceptDataset(w http.ResponseWriter, r *http.Request, ds models.Dataset) {
	if err := s.repo.Replace(r.Context(), ds); err != nil {
		s.logger.Error("failed to replace dataset", zap.Error(err))
		s.errorResponse(w, "failed to store dataset", http.StatusInternalServerError)
		return
	}

	counts := ds.Counts()
	if s.metrics != nil {
		s.metrics.RecordDatasetUpload()
		s.metrics.UpdateDatasetRows(counts.Influencers, counts.Posts, counts.Tracking, counts.Payouts)
	}

	if s.cache != nil {
		s.cache.Invalidate(r.Context())
	}

	if s.archive != nil && len(ds.Tracking) > 0 {
		if err := s.archive.Archive(r.Context(), ds.Tracking); err != nil {
			// Archival is best-effort; the upload already succeeded.
			s.logger.Warn("failed to archive tracking rows", zap.Error(err))
		} else if s.metrics != nil {
			s.metrics.RecordArchivedRows(len(ds.Tracking))
		}
	}

	s.logger.Info("dataset replaced",
		zap.Int("influencers", counts.Influencers),
		zap.Int("posts", counts.Posts),
		zap.Int("tracking", counts.Tracking),
		zap.Int("payouts", counts.Payouts),
	)
	s.jsonResponse(w, counts)
}

func (s *Server) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := s.repo.Counts(r.Context())
	if err != nil {
		s.logger.Error("failed to count dataset rows", zap.Error(err))
		s.errorResponse(w, "failed to read dataset", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, counts)
}

// ---- Analytics ----

func (s *Server) handleROIROAS(w http.ResponseWriter, r *http.Request) {
	ds, filter, ok := s.filteredSnapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result := s.engine.CalculateROIROAS(ds)
	s.recordAnalytics("roi_roas", start)

	s.logger.Debug("roi/roas computed",
		zap.Any("filter", filter),
		zap.Float64("avg_roi", result.AvgROI),
	)
	s.jsonResponse(w, result)
}

func (s *Server) handleTopPerformers(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.filteredSnapshot(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorResponse(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	start := time.Now()
	performers := s.engine.TopPerformers(ds, limit)
	s.recordAnalytics("top_performers", start)

	s.jsonResponse(w, performers)
}

func (s *Server) handlePoorPerformers(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.filteredSnapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	poor := s.engine.PoorPerformers(ds)
	s.recordAnalytics("poor_performers", start)

	s.jsonResponse(w, poor)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.filteredSnapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	trends := s.engine.AnalyzeTrends(ds)
	s.recordAnalytics("trends", start)

	s.jsonResponse(w, trends)
}

func (s *Server) handleIncrementalROAS(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.filteredSnapshot(w, r)
	if !ok {
		return
	}

	baselineDays := 0
	if v := r.URL.Query().Get("baseline_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, "invalid baseline_days", http.StatusBadRequest)
			return
		}
		baselineDays = n
	}

	start := time.Now()
	roas := s.engine.IncrementalROAS(ds, baselineDays)
	s.recordAnalytics("incremental_roas", start)

	s.jsonResponse(w, map[string]float64{"incremental_roas": roas})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := s.filteredSnapshot(w, r)
	if !ok {
		return
	}

	start := time.Now()
	recs := s.engine.Recommendations(ds)
	s.recordAnalytics("recommendations", start)

	s.jsonResponse(w, map[string][]string{"recommendations": recs})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if s.cache != nil {
		if report, hit := s.cache.Get(r.Context(), filter); hit {
			if s.metrics != nil {
				s.metrics.RecordCacheLookup(true)
			}
			s.jsonResponse(w, report)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(false)
		}
	}

	ds, err := s.repo.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load dataset", zap.Error(err))
		s.errorResponse(w, "failed to load dataset", http.StatusInternalServerError)
		return
	}
	ds = s.engine.ApplyFilters(ds, filter)

	start := time.Now()
	report := s.engine.GenerateInsights(r.Context(), ds)
	s.recordAnalytics("insights", start)

	if s.cache != nil {
		s.cache.Set(r.Context(), filter, &report)
	}

	s.jsonResponse(w, report)
}

// ---- Helper Methods ----

// filteredSnapshot loads the dataset and applies the request's filter
// parameters. On failure a response has already been written.
func (s *Server) filteredSnapshot(w http.ResponseWriter, r *http.Request) (models.Dataset, analytics.Filter, bool) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return models.Dataset{}, analytics.Filter{}, false
	}

	filter, err := parseFilter(r)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return models.Dataset{}, analytics.Filter{}, false
	}

	ds, err := s.repo.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load dataset", zap.Error(err))
		s.errorResponse(w, "failed to load dataset", http.StatusInternalServerError)
		return models.Dataset{}, analytics.Filter{}, false
	}

	return s.engine.ApplyFilters(ds, filter), filter, true
}

// parseFilter reads platform/brand/category/date query parameters.
func parseFilter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()
	f := analytics.Filter{
		Platform: q.Get("platform"),
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
	}

	startStr, endStr := q.Get("start_date"), q.Get("end_date")
	if startStr == "" && endStr == "" {
		return f, nil
	}
	if startStr == "" || endStr == "" {
		return f, fmt.Errorf("start_date and end_date must be given together")
	}

	start, err := models.ParseDate(startStr)
	if err != nil {
		return f, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := models.ParseDate(endStr)
	if err != nil {
		return f, fmt.Errorf("invalid end_date: %w", err)
	}
	if err := validateDateRange(start, end); err != nil {
		return f, err
	}

	f.DateRange = []models.Date{start, end}
	return f, nil
}

// validateDateRange enforces the selection rules: ordered, at most a year
// wide, and not in the future.
func validateDateRange(start, end models.Date) error {
	if start.After(end.Time) {
		return fmt.Errorf("start date cannot be after end date")
	}
	if end.Sub(start.Time) > 365*24*time.Hour {
		return fmt.Errorf("date range cannot exceed 365 days")
	}
	if end.After(time.Now()) {
		return fmt.Errorf("end date cannot be in the future")
	}
	return nil
}

func (s *Server) recordAnalytics(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordAnalytics(operation, "ok", time.Since(start))
	}
}

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
