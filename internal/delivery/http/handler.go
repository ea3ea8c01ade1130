package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriscope/backend/internal/domain"
)

// ReportGenerator is the usecase surface the handlers depend on
type ReportGenerator interface {
	GenerateFromText(ctx context.Context, text string) (*domain.Report, error)
	GenerateFromSelection(ctx context.Context, ingredients []string) (*domain.Report, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	reports ReportGenerator
}

// NewHandler creates a new HTTP handler
func NewHandler(reports ReportGenerator) *Handler {
	return &Handler{reports: reports}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutriscope-backend",
		"version": "1.0.0",
	})
}

// TextReport generates a nutrition report from free text
func (h *Handler) TextReport(c *gin.Context) {
	var req domain.TextReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	report, err := h.reports.GenerateFromText(c.Request.Context(), req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// SelectionReport generates a nutrition report from an explicit ingredient
// list, bypassing segmentation
func (h *Handler) SelectionReport(c *gin.Context) {
	var req domain.SelectionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients list is required"})
		return
	}

	report, err := h.reports.GenerateFromSelection(c.Request.Context(), req.Ingredients)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// writeError maps domain errors to HTTP responses. Empty input is a distinct
// non-crashing outcome, not a server fault.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "no ingredient phrases could be extracted from the input",
			"outcome": "empty_input",
		})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDatasetUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoKeyColumn):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
