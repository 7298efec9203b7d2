package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/presentation/http/dto/response"
)

// ReportHandler serves the sales and inventory reports
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// DailySales returns the sales statistics of a day
func (h *ReportHandler) DailySales(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.DailySales(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily sales report", report)
}

// Reorder lists buckets below the reorder threshold
func (h *ReportHandler) Reorder(c *gin.Context) {
	threshold, err := intQuery(c, "threshold")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Reorder(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reorder report", report)
}

// Stock lists every bucket
func (h *ReportHandler) Stock(c *gin.Context) {
	report, err := h.reports.Stock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Stock report", report)
}

// Expiring lists live stock expiring soon
func (h *ReportHandler) Expiring(c *gin.Context) {
	days, err := intQuery(c, "days")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Expiring(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expiring stock report", report)
}
