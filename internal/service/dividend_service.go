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

// DividendService executes fund-wide distributions and serves the
// distribution history.
type DividendService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	fundRepo        *repository.FundRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	dividendRepo    *repository.DividendRepository
	logRepo         *repository.OperationLogRepository
}

// NewDividendService creates a new DividendService with the provided repository dependencies.
func NewDividendService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	fundRepo *repository.FundRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	dividendRepo *repository.DividendRepository,
	logRepo *repository.OperationLogRepository,
) *DividendService {
	return &DividendService{
		db:              db,
		accountRepo:     accountRepo,
		fundRepo:        fundRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		dividendRepo:    dividendRepo,
		logRepo:         logRepo,
	}
}

// ExecuteDividend distributes perShare across every holder of the fund in
// one transaction. Cash dividends credit the spendable balance; reinvest
// dividends convert the payout into shares at the current NAV without
// changing the holder's cost basis. Each holder also gets a Completed
// dividend transaction in the trade log. A fund with no holders is a
// no-op: (nil, nil), nothing recorded.
func (s *DividendService) ExecuteDividend(fundID string, req request.DividendRequest) (*model.DividendRecord, error) {
	if req.PerShare <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if req.DividendType != model.DividendTypeCash && req.DividendType != model.DividendTypeReinvest {
		return nil, apperrors.ErrInvalidAmount
	}

	dividendDate := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, apperrors.ErrInvalidAmount
		}
		dividendDate = parsed
	}

	var record *model.DividendRecord
	err := withTx(s.db, func(tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)
		transactions := s.transactionRepo.WithTx(tx)

		fund, err := s.fundRepo.WithTx(tx).GetFund(fundID)
		if err != nil {
			return err
		}

		holders, err := holdings.ListByFund(fundID)
		if err != nil {
			return err
		}
		if len(holders) == 0 {
			return nil
		}

		nav := fund.NavCurrent
		if nav <= 0 {
			nav = fund.NavInitial
		}
		if nav <= 0 {
			nav = 1.0
		}

		now := time.Now().UTC()
		totalAmount := 0.0

		for _, h := range holders {
			payout := h.Shares * req.PerShare
			totalAmount += payout

			switch req.DividendType {
			case model.DividendTypeCash:
				account, err := accounts.GetAccount(h.UserID)
				if err != nil {
					return err
				}
				if err := accounts.UpdateBalances(account.ID, account.CashBalance+payout, account.UnsettledCash); err != nil {
					return err
				}
			case model.DividendTypeReinvest:
				extraShares := payout / nav
				h.Shares += extraShares
				h.LatestNav = nav
				h.TotalAsset = h.Shares * nav
				h.ProfitAmount = h.Shares*nav - h.AverageCost*h.Shares
				if h.AverageCost > 0 {
					h.ProfitRate = (nav - h.AverageCost) / h.AverageCost
				}
				if err := holdings.UpdateHolding(&h); err != nil {
					return err
				}
			}

			t := &model.Transaction{
				ID:           uuid.New().String(),
				TradeNo:      newTradeNo("DIV"),
				UserID:       h.UserID,
				FundID:       fund.ID,
				TradeType:    model.TradeTypeDividend,
				Amount:       payout,
				Nav:          nav,
				ActualAmount: payout,
				Status:       model.TradeStatusCompleted,
				FundCode:     fund.FundCode,
				FundName:     fund.FundName,
				ApplyTime:    now,
				SettleTime:   &now,
				CreatedAt:    now,
			}
			if req.DividendType == model.DividendTypeReinvest {
				t.Shares = payout / nav
				t.Remark = "dividend reinvested"
			}
			if err := transactions.InsertTransaction(t); err != nil {
				return err
			}
		}

		record = &model.DividendRecord{
			ID:                  uuid.New().String(),
			DividendNo:          newTradeNo("DIV"),
			FundID:              fund.ID,
			FundName:            fund.FundName,
			DividendDate:        dividendDate,
			DividendType:        req.DividendType,
			DividendPerShare:    req.PerShare,
			TotalAmount:         totalAmount,
			AffectedHolderCount: len(holders),
			CreatedAt:           now,
		}
		if err := s.dividendRepo.WithTx(tx).InsertDividendRecord(record); err != nil {
			return err
		}

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "DIVIDEND",
			Target:      fund.FundCode,
			Description: fmt.Sprintf("distributed %.4f per share to %d holders, total %.2f", req.PerShare, len(holders), totalAmount),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListDividends retrieves all distribution events, newest first.
func (s *DividendService) ListDividends() ([]model.DividendRecord, error) {
	return s.dividendRepo.ListDividendRecords()
}
