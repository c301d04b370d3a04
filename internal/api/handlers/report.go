package handlers

import (
	"net/http"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/response"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
)

// ReportHandler handles HTTP requests for platform reporting endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler with the provided service dependency.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Summary handles GET requests to retrieve the platform-wide summary.
//
// Endpoint: GET /api/report/summary
// Response: 200 OK with PlatformSummary
// Error: 500 Internal Server Error if aggregation fails
func (h *ReportHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.reportService.Summary()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
