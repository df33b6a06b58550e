package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radiusdt/vector-insights/internal/config"
	"github.com/radiusdt/vector-insights/internal/metrics"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewMetrics("httpserver_test")
	})
	cfg := &config.Config{}
	cfg.Upload.MaxBytes = 1 << 20
	return NewServer(&Dependencies{
		Config:  cfg,
		Logger:  zap.NewNop(),
		Metrics: testMetrics,
	})
}

func multipartCSV(t *testing.T, csv string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, csv)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadSummary(t *testing.T, srv http.Handler) {
	t.Helper()
	csv := strings.Join([]string{
		"Campaign,Media source,Cost,revenue_payme,gross_profit_payme,Installs appsflyer",
		"uz_p2p_promo,facebook_int,1000,2000,1000,500",
		"uz_reach_brand,googleadwords_int,500,250,-250,100",
	}, "\n")
	body, contentType := multipartCSV(t, csv)
	req := httptest.NewRequest(http.MethodPost, "/datasets/summary", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func uploadDaily(t *testing.T, srv http.Handler) {
	t.Helper()
	csv := strings.Join([]string{
		"Date,Campaign,Media source,Cost,Revenue 0 days cumulative appsflyer af_transfer_completed",
		"2024-11-04,uz_p2p_promo,facebook_int,1000,10000",
		"2024-11-05,uz_reach_brand,googleadwords_int,500,5000",
	}, "\n")
	body, contentType := multipartCSV(t, csv)
	req := httptest.NewRequest(http.MethodPost, "/datasets/daily", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestUploadAndDashboard(t *testing.T) {
	srv := newTestServer(t)
	uploadSummary(t, srv)
	uploadDaily(t, srv)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard?category=P2P", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Campaigns []struct {
			CampaignName string `json:"campaignName"`
			Rank         int    `json:"rank"`
		} `json:"campaigns"`
		DateRange string `json:"dateRange"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Campaigns, 1)
	assert.Equal(t, "uz_p2p_promo", payload.Campaigns[0].CampaignName)
	assert.Equal(t, "2024-11-04 to 2024-11-05", payload.DateRange)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/datasets/summary", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisEndpoints(t *testing.T) {
	srv := newTestServer(t)
	uploadSummary(t, srv)
	uploadDaily(t, srv)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CAMPAIGN PERFORMANCE SUMMARY")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/snapshot", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"benchmarks"`)
}

func TestReportsCRUD(t *testing.T) {
	srv := newTestServer(t)
	uploadSummary(t, srv)
	uploadDaily(t, srv)

	body := strings.NewReader(`{"name":"November P2P","category":"P2P"}`)
	req := httptest.NewRequest(http.MethodPost, "/reports", body)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID       string `json:"id"`
		Category string `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "P2P", created.Category)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "November P2P")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/reports/"+created.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWarehouseNotConfigured(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/warehouse/sync", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/warehouse/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"configured":false`)
}
