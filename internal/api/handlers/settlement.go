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

// SettlementHandler handles HTTP requests for settlement and audit endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the settlementService.
type SettlementHandler struct {
	settlementService *service.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler with the provided service dependency.
func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

// ProcessSettlement handles POST requests to run one settlement sweep over
// the pending transaction queue.
//
// Endpoint: POST /api/settlement/process
// Response: 200 OK with SweepResult
// Error: 500 Internal Server Error if the sweep fails
func (h *SettlementHandler) ProcessSettlement(w http.ResponseWriter, _ *http.Request) {
	result, err := h.settlementService.ProcessSettlement()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "settlement sweep failed", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// AuditTransaction handles POST requests to confirm or reject one pending
// transaction.
//
// Endpoint: POST /api/trade/{uuid}/audit
// Request Body: AuditRequest (action, remark)
// Response: 200 OK with the audited Transaction
// Error: 400 Bad Request if the action is invalid
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the transaction is already terminal
// Error: 500 Internal Server Error if the audit fails
func (h *SettlementHandler) AuditTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.AuditRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAudit(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.settlementService.AuditTransaction(transactionID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrTransactionTerminal):
			response.RespondError(w, http.StatusConflict, apperrors.ErrTransactionTerminal.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidAuditAction):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidAuditAction.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to audit transaction", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// LiquidateFund handles POST requests to forcibly close out a fund.
//
// Endpoint: POST /api/fund/{uuid}/liquidate
// Response: 200 OK with the number of holders paid out
// Error: 400 Bad Request if fund ID is invalid (validated by middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if liquidation fails
func (h *SettlementHandler) LiquidateFund(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "uuid")

	paidOut, err := h.settlementService.LiquidateFund(fundID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to liquidate fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"holdersPaidOut": paidOut})
}
