package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Summary(ctx context.Context) *usecase.Summary
	Charts(ctx context.Context) *usecase.Charts
}

// ReportHandler serves the dashboard summary and chart data.
type ReportHandler struct {
	reportUC  ReportService
	presenter dto.Presenter
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService, presenter dto.Presenter) *ReportHandler {
	return &ReportHandler{
		reportUC:  reportUC,
		presenter: presenter,
	}
}

// Summary returns totals and the summary sentences.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenter.Summary(h.reportUC.Summary(r.Context())))
}

// Charts returns every chart series.
func (h *ReportHandler) Charts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenter.Charts(h.reportUC.Charts(r.Context())))
}
