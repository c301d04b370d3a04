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

// TradeHandler handles HTTP requests for trading endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the tradeService.
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// Subscribe handles POST requests to buy into a fund.
//
// Endpoint: POST /api/trade/subscribe
// Request Body: SubscribeRequest (userId, fundId, amount, signature)
// Response: 201 Created with Transaction in cooling-off state
// Error: 400 Bad Request if validation fails or the balance is insufficient
// Error: 404 Not Found if the account or fund does not exist
// Error: 409 Conflict if the fund is not open for trading
// Error: 500 Internal Server Error if creation fails
func (h *TradeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SubscribeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSubscribe(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.tradeService.Subscribe(req)
	if err != nil {
		respondTradeError(w, err, "failed to create subscription")
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// Redeem handles POST requests to sell fund shares.
//
// Endpoint: POST /api/trade/redeem
// Request Body: RedeemRequest (userId, fundId, shares)
// Response: 201 Created with Transaction in settling state
// Error: 400 Bad Request if validation fails or shares are insufficient
// Error: 404 Not Found if the account or fund does not exist
// Error: 500 Internal Server Error if creation fails
func (h *TradeHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RedeemRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRedeem(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.tradeService.Redeem(req)
	if err != nil {
		respondTradeError(w, err, "failed to create redemption")
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// Deposit handles POST requests to credit settled cash.
//
// Endpoint: POST /api/trade/deposit
// Request Body: DepositRequest (userId, amount)
// Response: 201 Created with completed Transaction
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if creation fails
func (h *TradeHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.DepositRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateDeposit(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.tradeService.Deposit(req)
	if err != nil {
		respondTradeError(w, err, "failed to create deposit")
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// Transactions handles GET requests to retrieve transactions, optionally
// filtered by user.
//
// Endpoint: GET /api/trade?userId={uuid}
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if the userId filter is not a valid UUID
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID != "" {
		if err := validation.ValidateUUID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
			return
		}
	}

	transactions, err := h.tradeService.ListTransactions(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// PendingTransactions handles GET requests to retrieve all transactions
// still awaiting settlement or an administrative decision.
//
// Endpoint: GET /api/trade/pending
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) PendingTransactions(w http.ResponseWriter, _ *http.Request) {
	transactions, err := h.tradeService.ListPendingTransactions()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/trade/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.tradeService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// respondTradeError maps trade engine errors to HTTP status codes.
func respondTradeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrFundNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInsufficientFunds.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInsufficientShares):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInsufficientShares.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidAmount):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidAmount.Error(), err.Error())
	case errors.Is(err, apperrors.ErrFundNotTradable):
		response.RespondError(w, http.StatusConflict, apperrors.ErrFundNotTradable.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}
