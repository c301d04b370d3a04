package service

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
)

// SweepResult summarizes one settlement pass over the pending queue.
type SweepResult struct {
	Confirmed int     `json:"confirmed"`
	Completed int     `json:"completed"`
	Settled   float64 `json:"settledAmount"`
}

// SettlementService advances pending transactions through the lifecycle:
// the periodic sweep, the admin confirm/reject audit, and forced fund
// liquidation.
type SettlementService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	fundRepo        *repository.FundRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	logRepo         *repository.OperationLogRepository
}

// NewSettlementService creates a new SettlementService with the provided repository dependencies.
func NewSettlementService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	fundRepo *repository.FundRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	logRepo *repository.OperationLogRepository,
) *SettlementService {
	return &SettlementService{
		db:              db,
		accountRepo:     accountRepo,
		fundRepo:        fundRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		logRepo:         logRepo,
	}
}

// ProcessSettlement runs one sweep over all pending transactions. Every
// CoolingOff subscription becomes Confirmed and every Settling redemption
// becomes Completed, with its net proceeds moved from unsettled cash to
// the spendable balance. The deadline and settle-time stamps on a
// transaction are advisory display metadata; the sweep itself is the
// authoritative advance. It is idempotent: a transaction that settles in
// one pass is terminal and can never be credited again.
func (s *SettlementService) ProcessSettlement() (*SweepResult, error) {
	result := &SweepResult{}

	err := withTx(s.db, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		transactions := s.transactionRepo.WithTx(tx)

		pending, err := transactions.ListByStatus(model.TradeStatusCoolingOff, model.TradeStatusSettling)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		settledByUser := map[string]float64{}

		for i := range pending {
			t := &pending[i]
			switch t.Status {
			case model.TradeStatusCoolingOff:
				if err := transactions.UpdateStatus(t.ID, model.TradeStatusConfirmed, ""); err != nil {
					return err
				}
				result.Confirmed++
			case model.TradeStatusSettling:
				if err := transactions.UpdateStatus(t.ID, model.TradeStatusCompleted, ""); err != nil {
					return err
				}
				settledByUser[t.UserID] += t.ActualAmount
				result.Completed++
				result.Settled += t.ActualAmount
			}
		}

		// One balance write per user regardless of how many of their
		// redemptions settled in this pass.
		for userID, amount := range settledByUser {
			account, err := accounts.GetAccount(userID)
			if err != nil {
				return err
			}
			newUnsettled := math.Max(0, account.UnsettledCash-amount)
			if err := accounts.UpdateBalances(account.ID, account.CashBalance+amount, newUnsettled); err != nil {
				return err
			}
		}

		if result.Confirmed == 0 && result.Completed == 0 {
			return nil
		}
		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "system",
			ActionType:  "SETTLEMENT",
			Target:      "sweep",
			Description: fmt.Sprintf("confirmed %d, completed %d, settled %.2f", result.Confirmed, result.Completed, result.Settled),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AuditTransaction applies an administrative confirm or reject decision to
// one pending transaction. Terminal transactions cannot be audited again.
// A reject reverses the transaction's ledger effects symmetrically: a
// subscription refund restores the cash AND removes the shares it bought;
// a redemption reject restores the shares and cancels the unsettled
// credit.
func (s *SettlementService) AuditTransaction(id string, req request.AuditRequest) (model.Transaction, error) {
	var audited model.Transaction

	err := withTx(s.db, func(tx *sql.Tx) error {
		transactions := s.transactionRepo.WithTx(tx)

		t, err := transactions.GetTransaction(id)
		if err != nil {
			return err
		}
		if t.IsTerminal() {
			return apperrors.ErrTransactionTerminal
		}

		var newStatus int
		remark := req.Remark

		switch req.Action {
		case "confirm":
			newStatus = s.confirmTarget(&t)
			if newStatus == model.TradeStatusCompleted {
				if err := s.creditSettled(tx, t.UserID, t.ActualAmount); err != nil {
					return err
				}
			}
		case "reject":
			newStatus = model.TradeStatusRejected
			if remark == "" {
				remark = "rejected by administrator"
			}
			if err := s.reverseTransaction(tx, &t); err != nil {
				return err
			}
		default:
			return apperrors.ErrInvalidAuditAction
		}

		if err := transactions.UpdateStatus(t.ID, newStatus, remark); err != nil {
			return err
		}
		t.Status = newStatus
		if remark != "" {
			t.Remark = remark
		}
		audited = t

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "AUDIT",
			Target:      t.TradeNo,
			Description: fmt.Sprintf("audit %s on %s transaction", req.Action, tradeTypeName(t.TradeType)),
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return audited, nil
}

// confirmTarget decides where an admin confirm sends a transaction: a
// cooling-off subscription advances to Confirmed, a settling redemption
// completes early. Anything else defaults to Confirmed.
func (s *SettlementService) confirmTarget(t *model.Transaction) int {
	switch t.Status {
	case model.TradeStatusCoolingOff:
		return model.TradeStatusConfirmed
	case model.TradeStatusSettling:
		return model.TradeStatusCompleted
	default:
		return model.TradeStatusConfirmed
	}
}

// creditSettled moves a settled amount from unsettled cash into the
// spendable balance.
func (s *SettlementService) creditSettled(tx *sql.Tx, userID string, amount float64) error {
	accounts := s.accountRepo.WithTx(tx)

	account, err := accounts.GetAccount(userID)
	if err != nil {
		return err
	}
	newUnsettled := math.Max(0, account.UnsettledCash-amount)
	return accounts.UpdateBalances(account.ID, account.CashBalance+amount, newUnsettled)
}

// reverseTransaction undoes the ledger effects of a rejected transaction.
func (s *SettlementService) reverseTransaction(tx *sql.Tx, t *model.Transaction) error {
	accounts := s.accountRepo.WithTx(tx)
	holdings := s.holdingRepo.WithTx(tx)

	account, err := accounts.GetAccount(t.UserID)
	if err != nil {
		return err
	}

	switch t.TradeType {
	case model.TradeTypeSubscribe:
		// Refund the gross amount and remove the shares the subscription
		// created, keeping both sides of the ledger consistent.
		if err := accounts.UpdateBalances(account.ID, account.CashBalance+t.Amount, account.UnsettledCash); err != nil {
			return err
		}

		holding, err := holdings.GetByUserAndFund(t.UserID, t.FundID)
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		remaining := holding.Shares - t.Shares
		if remaining < model.HoldingEpsilon {
			return holdings.DeleteHolding(holding.ID)
		}
		holding.Shares = remaining
		holding.TotalAsset = remaining * holding.LatestNav
		holding.ProfitAmount = remaining*holding.LatestNav - holding.AverageCost*remaining
		return holdings.UpdateHolding(&holding)

	case model.TradeTypeRedeem:
		// Cancel the unsettled credit and restore the redeemed shares.
		newUnsettled := math.Max(0, account.UnsettledCash-t.ActualAmount)
		if err := accounts.UpdateBalances(account.ID, account.CashBalance, newUnsettled); err != nil {
			return err
		}

		holding, err := holdings.GetByUserAndFund(t.UserID, t.FundID)
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			now := time.Now().UTC()
			return holdings.InsertHolding(&model.Holding{
				ID:          uuid.New().String(),
				UserID:      t.UserID,
				FundID:      t.FundID,
				Shares:      t.Shares,
				AverageCost: t.Nav,
				LatestNav:   t.Nav,
				TotalAsset:  t.Shares * t.Nav,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		if err != nil {
			return err
		}

		holding.Shares += t.Shares
		holding.TotalAsset = holding.Shares * holding.LatestNav
		holding.ProfitAmount = holding.Shares*holding.LatestNav - holding.AverageCost*holding.Shares
		return holdings.UpdateHolding(&holding)

	case model.TradeTypeDeposit:
		newBalance := math.Max(0, account.CashBalance-t.Amount)
		return accounts.UpdateBalances(account.ID, newBalance, account.UnsettledCash)
	}

	return nil
}

// LiquidateFund forcibly closes out a fund: every holder is paid out at
// the fund's current NAV directly into the spendable balance, all holdings
// on the fund are removed, and a Completed transaction records each
// payout. The fund ends in Liquidating status and stops trading.
func (s *SettlementService) LiquidateFund(fundID string) (int, error) {
	var paidOut int

	err := withTx(s.db, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)
		transactions := s.transactionRepo.WithTx(tx)

		fund, err := s.fundRepo.WithTx(tx).GetFund(fundID)
		if err != nil {
			return err
		}

		nav := fund.NavCurrent
		if nav <= 0 {
			nav = fund.NavInitial
		}

		holders, err := holdings.ListByFund(fundID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, h := range holders {
			payout := h.Shares * nav

			account, err := accounts.GetAccount(h.UserID)
			if err != nil {
				return err
			}
			if err := accounts.UpdateBalances(account.ID, account.CashBalance+payout, account.UnsettledCash); err != nil {
				return err
			}

			t := &model.Transaction{
				ID:           uuid.New().String(),
				TradeNo:      newTradeNo("LIQ"),
				UserID:       h.UserID,
				FundID:       fund.ID,
				TradeType:    model.TradeTypeRedeem,
				Amount:       payout,
				Shares:       h.Shares,
				Nav:          nav,
				ActualAmount: payout,
				Status:       model.TradeStatusCompleted,
				Remark:       "forced liquidation",
				FundCode:     fund.FundCode,
				FundName:     fund.FundName,
				ApplyTime:    now,
				SettleTime:   &now,
				CreatedAt:    now,
			}
			if err := transactions.InsertTransaction(t); err != nil {
				return err
			}
			paidOut++
		}

		if err := holdings.DeleteByFund(fundID); err != nil {
			return err
		}

		if err := s.fundRepo.WithTx(tx).UpdateStatus(fundID, model.FundStatusLiquidating); err != nil {
			return err
		}

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "LIQUIDATE",
			Target:      fund.FundCode,
			Description: fmt.Sprintf("liquidated fund %s, paid out %d holders at nav %.4f", fund.FundCode, paidOut, nav),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return 0, err
	}
	return paidOut, nil
}

func tradeTypeName(tradeType int) string {
	switch tradeType {
	case model.TradeTypeSubscribe:
		return "subscription"
	case model.TradeTypeRedeem:
		return "redemption"
	case model.TradeTypeDeposit:
		return "deposit"
	case model.TradeTypeDividend:
		return "dividend"
	default:
		return "unknown"
	}
}
