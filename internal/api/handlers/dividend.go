package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/response"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/validation"
)

// DividendHandler handles HTTP requests for dividend endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the dividendService.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// ExecuteDividend handles POST requests to distribute a dividend across
// every holder of a fund.
//
// Endpoint: POST /api/fund/{uuid}/dividend
// Request Body: DividendRequest (dividendType, perShare, date)
// Response: 201 Created with DividendRecord, or 200 OK with null when the
// fund has no holders
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if distribution fails
func (h *DividendHandler) ExecuteDividend(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.DividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	record, err := h.dividendService.ExecuteDividend(fundID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFundNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidAmount):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidAmount.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to execute dividend", err.Error())
		}
		return
	}

	if record == nil {
		response.RespondJSON(w, http.StatusOK, nil)
		return
	}
	response.RespondJSON(w, http.StatusCreated, record)
}

// Dividends handles GET requests to retrieve all distribution events.
//
// Endpoint: GET /api/dividend
// Response: 200 OK with array of DividendRecord, newest first
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) Dividends(w http.ResponseWriter, _ *http.Request) {
	records, err := h.dividendService.ListDividends()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, records)
}
