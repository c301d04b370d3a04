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

// FundHandler handles HTTP requests for fund product endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fundService and valuationService.
type FundHandler struct {
	fundService      *service.FundService
	valuationService *service.ValuationService
}

// NewFundHandler creates a new FundHandler with the provided service dependencies.
func NewFundHandler(fundService *service.FundService, valuationService *service.ValuationService) *FundHandler {
	return &FundHandler{
		fundService:      fundService,
		valuationService: valuationService,
	}
}

// Funds handles GET requests to retrieve all fund products.
//
// Endpoint: GET /api/fund
// Response: 200 OK with array of Fund
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Funds(w http.ResponseWriter, _ *http.Request) {
	funds, err := h.fundService.ListFunds()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFunds.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// GetFund handles GET requests to retrieve a single fund by ID.
//
// Endpoint: GET /api/fund/{uuid}
// Response: 200 OK with Fund
// Error: 400 Bad Request if fund ID is invalid (validated by middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	fund, err := h.fundService.GetFund(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFund.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// CreateFund handles POST requests to issue a new fund product.
//
// Endpoint: POST /api/fund
// Request Body: CreateFundRequest
// Response: 201 Created with Fund
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *FundHandler) CreateFund(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.CreateFund(req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, fund)
}

// UpdateFund handles PUT requests to patch fund product parameters.
//
// Endpoint: PUT /api/fund/{uuid}
// Request Body: UpdateFundRequest (all fields optional)
// Response: 200 OK with updated Fund
// Error: 400 Bad Request if fund ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if update fails
func (h *FundHandler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.UpdateFund(fundID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// RecordNav handles POST requests to ingest a single NAV point.
//
// Endpoint: POST /api/fund/{uuid}/nav
// Request Body: NavRecordRequest (navDate, nav, navAccumulated, dailyReturnRate)
// Response: 201 Created with NavRecord
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if ingestion fails
func (h *FundHandler) RecordNav(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.NavRecordRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateNavRecord(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	record, err := h.valuationService.RecordNav(fundID, req)
	if err != nil {
		respondNavError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, record)
}

// RecordNavBatch handles POST requests to ingest a batch of NAV points
// atomically.
//
// Endpoint: POST /api/fund/{uuid}/nav/batch
// Request Body: NavBatchRequest
// Response: 200 OK with the number of records ingested
// Error: 400 Bad Request if any point fails validation
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if ingestion fails
func (h *FundHandler) RecordNavBatch(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.NavBatchRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateNavBatch(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	ingested, err := h.valuationService.RecordNavBatch(fundID, req)
	if err != nil {
		respondNavError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"ingested": ingested})
}

// NavHistory handles GET requests to retrieve a fund's NAV history.
//
// Endpoint: GET /api/fund/{uuid}/nav
// Response: 200 OK with array of NavRecord sorted oldest first
// Error: 400 Bad Request if fund ID is invalid (validated by middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) NavHistory(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	records, err := h.valuationService.NavHistory(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveNavHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, records)
}

func respondNavError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrFundNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidNavRecord):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidNavRecord.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "failed to record nav", err.Error())
	}
}
