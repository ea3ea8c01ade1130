package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscope/backend/internal/domain"
)

// stubGenerator returns a canned report or error
type stubGenerator struct {
	report *domain.Report
	err    error
}

func (s *stubGenerator) GenerateFromText(ctx context.Context, text string) (*domain.Report, error) {
	return s.report, s.err
}

func (s *stubGenerator) GenerateFromSelection(ctx context.Context, ingredients []string) (*domain.Report, error) {
	return s.report, s.err
}

func newTestRouter(gen ReportGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(gen)
	router.GET("/health", handler.HealthCheck)
	router.POST("/api/v1/report/text", handler.TextReport)
	router.POST("/api/v1/report/selection", handler.SelectionReport)
	return router
}

func sampleReport() *domain.Report {
	return &domain.Report{
		Rows: []domain.IngredientRow{
			{DisplayName: "white bread", Canonical: "White Bread", Confidence: 0.95},
			{DisplayName: "mystery paste", Canonical: "unresolved"},
		},
		Diets: []domain.DietVerdict{
			{Tag: "Keto", Verdict: domain.VerdictNo, Offenders: []string{"White Bread"}},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubGenerator{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestTextReport(t *testing.T) {
	t.Run("returns the report", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{report: sampleReport()})

		body, _ := json.Marshal(domain.TextReportRequest{Text: "Ingredients:\nwhite bread"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/text", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var report domain.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		require.Len(t, report.Rows, 2)
		assert.Equal(t, "White Bread", report.Rows[0].Canonical)
		assert.Equal(t, "unresolved", report.Rows[1].Canonical)
	})

	t.Run("missing text is a 400", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{report: sampleReport()})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/text", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty input is a 422 with a distinct outcome", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{err: domain.ErrEmptyInput})

		body, _ := json.Marshal(domain.TextReportRequest{Text: "   "})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/text", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "empty_input")
	})

	t.Run("retrieval failure is a 502", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{
			err: fmt.Errorf("required dataset %q: %w", "macros", domain.ErrDatasetUnavailable),
		})

		body, _ := json.Marshal(domain.TextReportRequest{Text: "white bread"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/text", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("configuration failure is a 500", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{
			err: fmt.Errorf("%w: dataset %q", domain.ErrNoKeyColumn, "macros"),
		})

		body, _ := json.Marshal(domain.TextReportRequest{Text: "white bread"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/text", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSelectionReport(t *testing.T) {
	t.Run("returns the report", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{report: sampleReport()})

		body, _ := json.Marshal(domain.SelectionReportRequest{Ingredients: []string{"white bread"}})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/selection", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing ingredients is a 400", func(t *testing.T) {
		router := newTestRouter(&stubGenerator{report: sampleReport()})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/report/selection", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("wildcard allows any origin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"*"}))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("prefix wildcard matches", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"https://app.*"}))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin gets no header", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"https://trusted.example.com"}))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight returns 204", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"*"}))
		router.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
