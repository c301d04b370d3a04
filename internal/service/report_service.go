package service

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
)

// PlatformSummary is the aggregated platform-wide view of the ledgers.
type PlatformSummary struct {
	AccountCount       int     `json:"accountCount"`
	FundCount          int     `json:"fundCount"`
	TotalCashBalance   float64 `json:"totalCashBalance"`
	TotalUnsettledCash float64 `json:"totalUnsettledCash"`
	TotalHoldingAssets float64 `json:"totalHoldingAssets"`
	TransactionCounts  struct {
		Confirmed  int `json:"confirmed"`
		Settling   int `json:"settling"`
		Completed  int `json:"completed"`
		CoolingOff int `json:"coolingOff"`
		Rejected   int `json:"rejected"`
	} `json:"transactionCounts"`
}

// ReportService aggregates the ledgers into platform-level summaries.
type ReportService struct {
	accountRepo     *repository.AccountRepository
	fundRepo        *repository.FundRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
}

// NewReportService creates a new ReportService with the provided repository dependencies.
func NewReportService(
	accountRepo *repository.AccountRepository,
	fundRepo *repository.FundRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
) *ReportService {
	return &ReportService{
		accountRepo:     accountRepo,
		fundRepo:        fundRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
	}
}

// Summary gathers the aggregate counts and totals. The four aggregate
// queries are independent and run concurrently.
func (s *ReportService) Summary() (*PlatformSummary, error) {
	summary := &PlatformSummary{}
	var g errgroup.Group

	g.Go(func() error {
		count, err := s.accountRepo.CountAccounts()
		if err != nil {
			return err
		}
		cash, unsettled, err := s.accountRepo.SumBalances()
		if err != nil {
			return err
		}
		summary.AccountCount = count
		summary.TotalCashBalance = cash
		summary.TotalUnsettledCash = unsettled
		return nil
	})

	g.Go(func() error {
		count, err := s.fundRepo.CountFunds()
		if err != nil {
			return err
		}
		summary.FundCount = count
		return nil
	})

	g.Go(func() error {
		total, err := s.holdingRepo.SumTotalAssets()
		if err != nil {
			return err
		}
		summary.TotalHoldingAssets = total
		return nil
	})

	g.Go(func() error {
		counts, err := s.transactionRepo.CountByStatus()
		if err != nil {
			return err
		}
		summary.TransactionCounts.Confirmed = counts[model.TradeStatusConfirmed]
		summary.TransactionCounts.Settling = counts[model.TradeStatusSettling]
		summary.TransactionCounts.Completed = counts[model.TradeStatusCompleted]
		summary.TransactionCounts.CoolingOff = counts[model.TradeStatusCoolingOff]
		summary.TransactionCounts.Rejected = counts[model.TradeStatusRejected]
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveSummary, err)
	}
	return summary, nil
}
