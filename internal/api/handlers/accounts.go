package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/response"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/validation"
)

// AccountHandler handles HTTP requests for account and holding endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the accountService.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependency.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Accounts handles GET requests to retrieve all accounts.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of Account
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Accounts(w http.ResponseWriter, _ *http.Request) {
	accounts, err := h.accountService.ListAccounts()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET requests to retrieve a single account by ID.
//
// Endpoint: GET /api/account/{uuid}
// Response: 200 OK with Account
// Error: 400 Bad Request if account ID is invalid (validated by middleware)
// Error: 404 Not Found if account not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	account, err := h.accountService.GetAccount(accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccount.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// Holdings handles GET requests to retrieve a user's holdings with fund
// metadata.
//
// Endpoint: GET /api/account/{uuid}/holdings
// Response: 200 OK with array of HoldingResponse
// Error: 400 Bad Request if account ID is invalid (validated by middleware)
// Error: 404 Not Found if account not found
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	holdings, err := h.accountService.ListHoldings(accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// UpdateRiskLevel handles PUT requests to set an account's risk tolerance.
//
// Endpoint: PUT /api/account/{uuid}/risk
// Request Body: UpdateRiskRequest (riskLevel)
// Response: 204 No Content
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if account not found
// Error: 500 Internal Server Error if update fails
func (h *AccountHandler) UpdateRiskLevel(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateRiskRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateRisk(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.accountService.UpdateRiskLevel(accountID, req); err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update risk level", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// AdjustHolding handles PUT requests for the administrative holding
// override.
//
// Endpoint: PUT /api/holding/{uuid}
// Request Body: AdjustHoldingRequest (shares, averageCost, remark)
// Response: 200 OK with the adjusted Holding (zeroed when deleted)
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if holding not found
// Error: 500 Internal Server Error if the adjustment fails
func (h *AccountHandler) AdjustHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.AdjustHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAdjustHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.accountService.AdjustHolding(holdingID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to adjust holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// Logs handles GET requests to retrieve the operation log.
//
// Endpoint: GET /api/logs?limit={n}
// Response: 200 OK with array of OperationLog, newest first
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", err.Error())
			return
		}
		limit = parsed
	}

	logs, err := h.accountService.ListLogs(limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLogs.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}
