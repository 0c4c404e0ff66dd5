package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	reportapp "github.com/simpok/backend/internal/application/report"
)

// ReportHandler handles realization report API endpoints
type ReportHandler struct {
	BaseHandler
	service *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *reportapp.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// parseYearQuery reads an optional "year" query parameter
func parseYearQuery(c *gin.Context) (*int, error) {
	raw := c.Query("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// Realization returns the per-line realization of the current ledger
// version: planned versus disbursed with a percentage per line
func (h *ReportHandler) Realization(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	year, err := parseYearQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return
	}

	report, err := h.service.Realization(c.Request.Context(), ownerID, year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// Summary returns the headline realization figures
func (h *ReportHandler) Summary(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	year, err := parseYearQuery(c)
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), ownerID, year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Monthly returns the disbursed-per-month series for a year
func (h *ReportHandler) Monthly(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.BadRequest(c, "Year is required")
		return
	}

	report, err := h.service.GetMonthly(c.Request.Context(), ownerID, year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
