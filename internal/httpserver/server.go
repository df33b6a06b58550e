package httpserver

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/radiusdt/vector-insights/internal/database"
	"github.com/radiusdt/vector-insights/internal/ingest"
	"github.com/radiusdt/vector-insights/internal/metrics"
	"github.com/radiusdt/vector-insights/internal/models"
	"github.com/radiusdt/vector-insights/internal/reporting"
	"github.com/radiusdt/vector-insights/internal/storage"
	"github.com/radiusdt/vector-insights/internal/warehouse"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB        *database.PostgresDB
	Redis     *database.RedisDB
	Warehouse *database.ClickHouseDB
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Server wraps HTTP handlers and the analysis services.
type Server struct {
	store     *storage.DatasetStore
	reports   storage.ReportRepo
	reporting *reporting.Service
	syncer    *warehouse.Syncer
	db        *database.PostgresDB
	redis     *database.RedisDB
	logger    *zap.Logger
	config    *config.Config
	metrics   *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	store := storage.NewDatasetStore()

	var reports storage.ReportRepo
	if deps.DB != nil {
		reports = storage.NewPostgresReportRepo(deps.DB.Pool)
	} else {
		reports = storage.NewInMemoryReportRepo()
	}

	var cache *redis.Client
	if deps.Redis != nil {
		cache = deps.Redis.Client
	}
	reportingSvc := reporting.NewService(store, cache, deps.Config.Cache, deps.Metrics, deps.Logger)

	var syncer *warehouse.Syncer
	if deps.Warehouse != nil {
		client := warehouse.NewClient(deps.Warehouse.Conn, deps.Config.Warehouse, deps.Logger)
		syncer = warehouse.NewSyncer(client, store, deps.Metrics, deps.Logger)
	}

	s := &Server{
		store:     store,
		reports:   reports,
		reporting: reportingSvc,
		syncer:    syncer,
		db:        deps.DB,
		redis:     deps.Redis,
		logger:    deps.Logger,
		config:    deps.Config,
		metrics:   deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Dataset uploads
	mux.HandleFunc("/datasets/summary", s.handleUploadSummary)
	mux.HandleFunc("/datasets/daily", s.handleUploadDaily)
	mux.HandleFunc("/datasets/status", s.handleDatasetStatus)

	// Dashboard
	mux.HandleFunc("/dashboard", s.handleDashboard)

	// Analysis payloads
	mux.HandleFunc("/analysis/snapshot", s.handleSnapshot)
	mux.HandleFunc("/analysis/summary", s.handleSummaryText)

	// Saved reports
	mux.HandleFunc("/reports", s.handleReports)
	mux.HandleFunc("/reports/", s.handleReportByID)

	// Warehouse sync
	mux.HandleFunc("/warehouse/sync", s.handleWarehouseSync)
	mux.HandleFunc("/warehouse/status", s.handleWarehouseStatus)

	return mux
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}

	if s.db != nil {
		if err := s.db.Health(r.Context()); err != nil {
			status["postgres"] = "unreachable"
		} else {
			status["postgres"] = "ok"
		}
	}
	if s.redis != nil {
		if err := s.redis.Health(r.Context()); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	}

	s.jsonResponse(w, status)
}

// ---- Dataset Uploads ----

func (s *Server) handleUploadSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, err := s.uploadedFile(w, r)
	if err != nil {
		s.metrics.RecordUpload("summary", "rejected", 0)
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	campaigns, totalRows, err := ingest.ParseSummary(file)
	if err != nil {
		s.metrics.RecordUpload("summary", "invalid", 0)
		s.errorResponse(w, "failed to parse summary CSV: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	ds := s.store.SetSummary(campaigns)
	s.metrics.RecordUpload("summary", "ok", totalRows)
	s.metrics.UpdateDatasetSize(len(ds.Summary), len(ds.Daily))

	s.logger.Info("summary dataset replaced",
		zap.Int("rows", totalRows),
		zap.Int("campaigns", len(campaigns)),
		zap.String("version", ds.Version),
	)

	s.jsonResponse(w, map[string]any{
		"campaigns":      campaigns,
		"totalRows":      totalRows,
		"datasetVersion": ds.Version,
	})
}

func (s *Server) handleUploadDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, err := s.uploadedFile(w, r)
	if err != nil {
		s.metrics.RecordUpload("daily", "rejected", 0)
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, dateRange, err := ingest.ParseDaily(file)
	if err != nil {
		s.metrics.RecordUpload("daily", "invalid", 0)
		s.errorResponse(w, "failed to parse daily CSV: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	ds := s.store.SetDaily(rows, dateRange)
	s.metrics.RecordUpload("daily", "ok", len(rows))
	s.metrics.UpdateDatasetSize(len(ds.Summary), len(ds.Daily))

	s.logger.Info("daily dataset replaced",
		zap.Int("rows", len(rows)),
		zap.String("date_range", dateRange),
		zap.String("version", ds.Version),
	)

	s.jsonResponse(w, map[string]any{
		"rows":           len(rows),
		"dateRange":      dateRange,
		"datasetVersion": ds.Version,
	})
}

func (s *Server) handleDatasetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ds := s.store.Current()
	s.jsonResponse(w, map[string]any{
		"datasetVersion": ds.Version,
		"summaryRows":    len(ds.Summary),
		"dailyRows":      len(ds.Daily),
		"dateRange":      ds.DateRange,
		"updatedAt":      ds.UpdatedAt,
	})
}

var (
	errUploadRejected = errors.New("upload too large or malformed")
	errNoFile         = errors.New("no file uploaded")
)

// uploadedFile extracts the "file" part of a size-capped multipart upload.
func (s *Server) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes)
	if err := r.ParseMultipartForm(s.config.Upload.MaxBytes); err != nil {
		return nil, errUploadRejected
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	return file, nil
}

// ---- Dashboard ----

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := s.reporting.Dashboard(r.Context(), s.filtersFromQuery(r))
	if err != nil {
		s.logger.Error("dashboard computation failed", zap.Error(err))
		s.errorResponse(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, payload)
}

// ---- Analysis ----

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := s.reporting.Analysis(r.Context(), s.filtersFromQuery(r))
	if err != nil {
		s.logger.Error("snapshot computation failed", zap.Error(err))
		s.errorResponse(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, payload.Snapshot)
}

func (s *Server) handleSummaryText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := s.reporting.Analysis(r.Context(), s.filtersFromQuery(r))
	if err != nil {
		s.logger.Error("summary computation failed", zap.Error(err))
		s.errorResponse(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(payload.SummaryText))
}

// ---- Saved Reports ----

type createReportRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.reports.ListReports(r.Context())
		if err != nil {
			s.logger.Error("failed to list reports", zap.Error(err))
			s.metrics.RecordReportOp("list", "error")
			s.errorResponse(w, "failed to list reports", http.StatusInternalServerError)
			return
		}
		s.metrics.RecordReportOp("list", "ok")
		s.jsonResponse(w, list)

	case http.MethodPost:
		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			s.errorResponse(w, "name required", http.StatusBadRequest)
			return
		}

		payload, err := s.reporting.Analysis(r.Context(), reporting.Filters{
			Category: req.Category,
			Source:   req.Source,
		})
		if err != nil {
			s.logger.Error("report computation failed", zap.Error(err))
			s.metrics.RecordReportOp("create", "error")
			s.errorResponse(w, "internal error", http.StatusInternalServerError)
			return
		}

		report := &models.Report{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Category:    orAll(req.Category),
			Source:      orAll(req.Source),
			DateRange:   payload.DateRange,
			Snapshot:    payload.Snapshot,
			SummaryText: payload.SummaryText,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.reports.SaveReport(r.Context(), report); err != nil {
			s.logger.Error("failed to save report", zap.Error(err))
			s.metrics.RecordReportOp("create", "error")
			s.errorResponse(w, "failed to save report", http.StatusInternalServerError)
			return
		}

		s.metrics.RecordReportOp("create", "ok")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(report)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReportByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/reports/")
	if id == "" || strings.Contains(id, "/") {
		s.errorResponse(w, "invalid report id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		report, err := s.reports.GetReport(r.Context(), id)
		if err != nil {
			s.logger.Error("failed to get report", zap.Error(err))
			s.errorResponse(w, "failed to get report", http.StatusInternalServerError)
			return
		}
		if report == nil {
			s.errorResponse(w, "report not found", http.StatusNotFound)
			return
		}
		s.jsonResponse(w, report)

	case http.MethodDelete:
		deleted, err := s.reports.DeleteReport(r.Context(), id)
		if err != nil {
			s.logger.Error("failed to delete report", zap.Error(err))
			s.metrics.RecordReportOp("delete", "error")
			s.errorResponse(w, "failed to delete report", http.StatusInternalServerError)
			return
		}
		if !deleted {
			s.errorResponse(w, "report not found", http.StatusNotFound)
			return
		}
		s.metrics.RecordReportOp("delete", "ok")
		w.WriteHeader(http.StatusNoContent)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- Warehouse ----

func (s *Server) handleWarehouseSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.syncer == nil {
		s.errorResponse(w, "warehouse not configured", http.StatusServiceUnavailable)
		return
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -30)
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.errorResponse(w, "invalid start date", http.StatusBadRequest)
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.errorResponse(w, "invalid end date", http.StatusBadRequest)
			return
		}
		end = t
	}
	if end.Before(start) {
		s.errorResponse(w, "end date before start date", http.StatusBadRequest)
		return
	}

	result, err := s.syncer.Sync(r.Context(), start, end)
	if err != nil {
		s.logger.Error("warehouse sync failed", zap.Error(err))
		s.errorResponse(w, "warehouse sync failed", http.StatusBadGateway)
		return
	}
	s.jsonResponse(w, result)
}

func (s *Server) handleWarehouseStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := map[string]any{"configured": s.syncer != nil}
	if s.syncer != nil {
		if last := s.syncer.LastResult(); last != nil {
			status["lastSync"] = last
		}
	}
	s.jsonResponse(w, status)
}

// ---- Helper Methods ----

func (s *Server) filtersFromQuery(r *http.Request) reporting.Filters {
	q := r.URL.Query()
	return reporting.Filters{
		Category: q.Get("category"),
		Source:   q.Get("source"),
		Campaign: q.Get("campaign"),
	}
}

func orAll(v string) string {
	if v == "" {
		return models.FilterAll
	}
	return v
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
