package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/signing"
)

// coolingOffWindow is the mandatory period after a subscription during
// which the contract stays cancellable before confirmation.
const coolingOffWindow = 24 * time.Hour

// TradeService handles subscriptions, redemptions and deposits. Each
// operation commits as one transaction: account debit/credit, holding
// mutation and trade-log append land together or not at all.
type TradeService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	fundRepo        *repository.FundRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	logRepo         *repository.OperationLogRepository
	signer          *signing.Signer
}

// NewTradeService creates a new TradeService with the provided repository dependencies.
func NewTradeService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	fundRepo *repository.FundRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	logRepo *repository.OperationLogRepository,
	signer *signing.Signer,
) *TradeService {
	return &TradeService{
		db:              db,
		accountRepo:     accountRepo,
		fundRepo:        fundRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		logRepo:         logRepo,
		signer:          signer,
	}
}

// Subscribe buys into a fund with a gross cash amount. The fee is
// extracted from the gross amount: netAmount = amount / (1 + feeRate),
// fee = amount - netAmount, shares = netAmount / nav. The account is
// debited and the holding created immediately; the transaction enters the
// cooling-off state and stays cancellable until confirmed.
func (s *TradeService) Subscribe(req request.SubscribeRequest) (*model.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var created *model.Transaction
	err := withTx(s.db, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)

		account, err := accounts.GetAccount(req.UserID)
		if err != nil {
			return err
		}

		fund, err := s.fundRepo.WithTx(tx).GetFund(req.FundID)
		if err != nil {
			return err
		}
		if fund.Status == model.FundStatusLiquidating || fund.Status == model.FundStatusSuspended {
			return apperrors.ErrFundNotTradable
		}

		if account.CashBalance < req.Amount {
			return apperrors.ErrInsufficientFunds
		}

		netAmount := req.Amount / (1 + fund.SubscriptionFeeRate)
		fee := req.Amount - netAmount

		// NAV falls back to the initial NAV before the first valuation.
		nav := fund.NavCurrent
		if nav <= 0 {
			nav = fund.NavInitial
		}
		if nav <= 0 {
			nav = 1.0
		}
		shares := netAmount / nav

		if err := accounts.UpdateBalances(account.ID, account.CashBalance-req.Amount, account.UnsettledCash); err != nil {
			return err
		}

		if err := s.applySubscriptionToHolding(holdings, req.UserID, fund.ID, shares, req.Amount, nav); err != nil {
			return err
		}

		signature, err := s.signer.Encrypt(req.Signature)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		deadline := now.Add(coolingOffWindow)
		created = &model.Transaction{
			ID:                 uuid.New().String(),
			TradeNo:            newTradeNo("TX"),
			UserID:             req.UserID,
			FundID:             fund.ID,
			TradeType:          model.TradeTypeSubscribe,
			Amount:             req.Amount,
			Shares:             shares,
			Nav:                nav,
			Fee:                fee,
			ActualAmount:       req.Amount,
			Status:             model.TradeStatusCoolingOff,
			FundCode:           fund.FundCode,
			FundName:           fund.FundName,
			Signature:          signature,
			ApplyTime:          now,
			CoolingOffDeadline: &deadline,
			CreatedAt:          now,
		}
		if err := s.transactionRepo.WithTx(tx).InsertTransaction(created); err != nil {
			return err
		}

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       account.RealName,
			ActionType:  "SUBSCRIBE",
			Target:      created.TradeNo,
			Description: fmt.Sprintf("subscribed %.2f into fund %s", req.Amount, fund.FundCode),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applySubscriptionToHolding upserts the (user, fund) holding using a
// weighted-average cost basis: the gross amount paid, not the net, counts
// as cost.
func (s *TradeService) applySubscriptionToHolding(
	holdings *repository.HoldingRepository,
	userID, fundID string,
	shares, grossAmount, nav float64,
) error {
	now := time.Now().UTC()

	holding, err := holdings.GetByUserAndFund(userID, fundID)
	if errors.Is(err, apperrors.ErrHoldingNotFound) {
		averageCost := grossAmount / shares
		return holdings.InsertHolding(&model.Holding{
			ID:           uuid.New().String(),
			UserID:       userID,
			FundID:       fundID,
			Shares:       shares,
			AverageCost:  averageCost,
			LatestNav:    nav,
			TotalAsset:   shares * nav,
			ProfitAmount: shares*nav - averageCost*shares,
			ProfitRate:   (nav - averageCost) / averageCost,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if err != nil {
		return err
	}

	newShares := holding.Shares + shares
	newAverageCost := (holding.AverageCost*holding.Shares + grossAmount) / newShares

	holding.Shares = newShares
	holding.AverageCost = newAverageCost
	holding.LatestNav = nav
	holding.TotalAsset = newShares * nav
	holding.ProfitAmount = newShares*nav - newAverageCost*newShares
	holding.ProfitRate = (nav - newAverageCost) / newAverageCost

	return holdings.UpdateHolding(&holding)
}

// Redeem sells shares out of a holding at the latest NAV. Net proceeds go
// to unsettled cash, not the spendable balance; they become spendable when
// the settlement sweep or an admin confirm completes the transaction.
func (s *TradeService) Redeem(req request.RedeemRequest) (*model.Transaction, error) {
	if req.Shares <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var created *model.Transaction
	err := withTx(s.db, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)

		holding, err := holdings.GetByUserAndFund(req.UserID, req.FundID)
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			return apperrors.ErrInsufficientShares
		}
		if err != nil {
			return err
		}
		if holding.Shares < req.Shares {
			return apperrors.ErrInsufficientShares
		}

		account, err := accounts.GetAccount(req.UserID)
		if err != nil {
			return err
		}

		fund, err := s.fundRepo.WithTx(tx).GetFund(req.FundID)
		if err != nil {
			return err
		}

		nav := holding.LatestNav
		grossAmount := req.Shares * nav
		fee := grossAmount * fund.RedemptionFeeRate
		netAmount := grossAmount - fee

		remaining := holding.Shares - req.Shares
		if remaining < model.HoldingEpsilon {
			if err := holdings.DeleteHolding(holding.ID); err != nil {
				return err
			}
		} else {
			holding.Shares = remaining
			holding.TotalAsset = remaining * nav
			holding.ProfitAmount = remaining*nav - holding.AverageCost*remaining
			if err := holdings.UpdateHolding(&holding); err != nil {
				return err
			}
		}

		if err := accounts.UpdateBalances(account.ID, account.CashBalance, account.UnsettledCash+netAmount); err != nil {
			return err
		}

		now := time.Now().UTC()
		settleTime := now.Add(time.Duration(fund.SettlementCycleDays) * 24 * time.Hour)
		created = &model.Transaction{
			ID:           uuid.New().String(),
			TradeNo:      newTradeNo("RD"),
			UserID:       req.UserID,
			FundID:       fund.ID,
			TradeType:    model.TradeTypeRedeem,
			Amount:       netAmount,
			Shares:       req.Shares,
			Nav:          nav,
			Fee:          fee,
			ActualAmount: netAmount,
			Status:       model.TradeStatusSettling,
			FundCode:     fund.FundCode,
			FundName:     fund.FundName,
			ApplyTime:    now,
			SettleTime:   &settleTime,
			CreatedAt:    now,
		}
		if err := s.transactionRepo.WithTx(tx).InsertTransaction(created); err != nil {
			return err
		}

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       account.RealName,
			ActionType:  "REDEEM",
			Target:      created.TradeNo,
			Description: fmt.Sprintf("redeemed %.4f shares of fund %s", req.Shares, fund.FundCode),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Deposit credits settled cash immediately. The transaction is born in the
// terminal Completed state; deposits carry no settlement risk and appear
// in the log only for a complete trade history.
func (s *TradeService) Deposit(req request.DepositRequest) (*model.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var created *model.Transaction
	err := withTx(s.db, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)

		account, err := accounts.GetAccount(req.UserID)
		if err != nil {
			return err
		}

		if err := accounts.UpdateBalances(account.ID, account.CashBalance+req.Amount, account.UnsettledCash); err != nil {
			return err
		}

		now := time.Now().UTC()
		created = &model.Transaction{
			ID:           uuid.New().String(),
			TradeNo:      newTradeNo("DEP"),
			UserID:       req.UserID,
			TradeType:    model.TradeTypeDeposit,
			Amount:       req.Amount,
			Nav:          1,
			ActualAmount: req.Amount,
			Status:       model.TradeStatusCompleted,
			ApplyTime:    now,
			CreatedAt:    now,
		}
		if err := s.transactionRepo.WithTx(tx).InsertTransaction(created); err != nil {
			return err
		}

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       account.RealName,
			ActionType:  "DEPOSIT",
			Target:      created.TradeNo,
			Description: fmt.Sprintf("deposited %.2f", req.Amount),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetTransaction retrieves a single transaction by ID with its signature
// decrypted for the admin detail view.
func (s *TradeService) GetTransaction(id string) (model.Transaction, error) {
	t, err := s.transactionRepo.GetTransaction(id)
	if err != nil {
		return model.Transaction{}, err
	}

	if t.Signature != "" {
		if plaintext, err := s.signer.Decrypt(t.Signature); err == nil {
			t.Signature = plaintext
		}
	}
	return t, nil
}

// ListTransactions retrieves transactions, optionally filtered by user.
func (s *TradeService) ListTransactions(userID string) ([]model.Transaction, error) {
	return s.transactionRepo.ListTransactions(userID)
}

// ListPendingTransactions retrieves all transactions awaiting a settlement
// sweep or an administrative decision.
func (s *TradeService) ListPendingTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.ListByStatus(model.TradeStatusCoolingOff, model.TradeStatusSettling)
}
