package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
)

// AccountService serves account views and the administrative overrides on
// accounts and holdings.
type AccountService struct {
	db          *sql.DB
	accountRepo *repository.AccountRepository
	holdingRepo *repository.HoldingRepository
	logRepo     *repository.OperationLogRepository
}

// NewAccountService creates a new AccountService with the provided repository dependencies.
func NewAccountService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	logRepo *repository.OperationLogRepository,
) *AccountService {
	return &AccountService{db: db, accountRepo: accountRepo, holdingRepo: holdingRepo, logRepo: logRepo}
}

// GetAccount retrieves a single account by ID.
func (s *AccountService) GetAccount(id string) (model.Account, error) {
	return s.accountRepo.GetAccount(id)
}

// ListAccounts retrieves all accounts.
func (s *AccountService) ListAccounts() ([]model.Account, error) {
	return s.accountRepo.ListAccounts()
}

// ListHoldings retrieves a user's holdings with fund metadata.
func (s *AccountService) ListHoldings(userID string) ([]model.HoldingResponse, error) {
	if _, err := s.accountRepo.GetAccount(userID); err != nil {
		return nil, err
	}
	return s.holdingRepo.ListByUser(userID)
}

// UpdateRiskLevel sets an account's risk tolerance level.
func (s *AccountService) UpdateRiskLevel(id string, req request.UpdateRiskRequest) error {
	return withTx(s.db, func(tx *sql.Tx) error {
		if err := s.accountRepo.WithTx(tx).UpdateRiskLevel(id, req.RiskLevel); err != nil {
			return err
		}
		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "RISK_UPDATE",
			Target:      id,
			Description: fmt.Sprintf("set risk level to %d", req.RiskLevel),
			CreatedAt:   time.Now().UTC(),
		})
	})
}

// AdjustHolding is the administrative override on a holding's position.
// Setting shares under the dust threshold deletes the holding. Every
// adjustment lands in the operation log with the mandatory remark.
func (s *AccountService) AdjustHolding(holdingID string, req request.AdjustHoldingRequest) (model.Holding, error) {
	if req.Shares < 0 || req.AverageCost < 0 {
		return model.Holding{}, apperrors.ErrInvalidAmount
	}

	var adjusted model.Holding
	err := withTx(s.db, func(tx *sql.Tx) error {
		holdings := s.holdingRepo.WithTx(tx)

		holding, err := holdings.GetHolding(holdingID)
		if err != nil {
			return err
		}

		if req.Shares < model.HoldingEpsilon {
			if err := holdings.DeleteHolding(holding.ID); err != nil {
				return err
			}
			adjusted = model.Holding{}
		} else {
			holding.Shares = req.Shares
			holding.AverageCost = req.AverageCost
			holding.TotalAsset = req.Shares * holding.LatestNav
			holding.ProfitAmount = req.Shares*holding.LatestNav - req.AverageCost*req.Shares
			if req.AverageCost > 0 {
				holding.ProfitRate = (holding.LatestNav - req.AverageCost) / req.AverageCost
			} else {
				holding.ProfitRate = 0
			}
			if err := holdings.UpdateHolding(&holding); err != nil {
				return err
			}
			adjusted = holding
		}

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "HOLDING_ADJUST",
			Target:      holding.ID,
			Description: fmt.Sprintf("adjusted holding to %.4f shares at cost %.4f: %s", req.Shares, req.AverageCost, req.Remark),
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return model.Holding{}, err
	}
	return adjusted, nil
}

// ListLogs retrieves the most recent operation log entries.
func (s *AccountService) ListLogs(limit int) ([]model.OperationLog, error) {
	logs, err := s.logRepo.ListLogs(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveLogs, err)
	}
	return logs, nil
}
