package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
)

// FundService manages fund products: issuing, listing and parameter
// changes. NAV and lifecycle transitions live in the valuation and
// settlement services.
type FundService struct {
	db       *sql.DB
	fundRepo *repository.FundRepository
	logRepo  *repository.OperationLogRepository
}

// NewFundService creates a new FundService with the provided repository dependencies.
func NewFundService(db *sql.DB, fundRepo *repository.FundRepository, logRepo *repository.OperationLogRepository) *FundService {
	return &FundService{db: db, fundRepo: fundRepo, logRepo: logRepo}
}

// CreateFund issues a new fund product. The live NAV starts at the initial
// NAV; the first valuation record overrides it.
func (s *FundService) CreateFund(req request.CreateFundRequest) (*model.Fund, error) {
	navInitial := req.NavInitial
	if navInitial <= 0 {
		navInitial = 1.0
	}
	status := req.Status
	if status == 0 {
		status = model.FundStatusRaising
	}

	issueDate := time.Now().UTC()
	if req.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.IssueDate)
		if err == nil {
			issueDate = parsed
		}
	}

	now := time.Now().UTC()
	fund := &model.Fund{
		ID:                  uuid.New().String(),
		FundCode:            req.FundCode,
		FundName:            req.FundName,
		FundType:            req.FundType,
		RiskLevel:           req.RiskLevel,
		NavCurrent:          navInitial,
		NavAccumulated:      navInitial,
		NavInitial:          navInitial,
		SubscriptionFeeRate: req.SubscriptionFeeRate,
		RedemptionFeeRate:   req.RedemptionFeeRate,
		ManagementFeeRate:   req.ManagementFeeRate,
		LockupPeriodDays:    req.LockupPeriodDays,
		SettlementCycleDays: req.SettlementCycleDays,
		Status:              status,
		Manager:             req.Manager,
		Strategy:            req.Strategy,
		IssueDate:           issueDate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err := withTx(s.db, func(tx *sql.Tx) error {
		if err := s.fundRepo.WithTx(tx).InsertFund(fund); err != nil {
			return err
		}
		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "FUND_CREATE",
			Target:      fund.FundCode,
			Description: fmt.Sprintf("issued fund %s (%s)", fund.FundCode, fund.FundName),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return fund, nil
}

// GetFund retrieves a single fund by ID.
func (s *FundService) GetFund(id string) (model.Fund, error) {
	return s.fundRepo.GetFund(id)
}

// ListFunds retrieves all fund products.
func (s *FundService) ListFunds() ([]model.Fund, error) {
	return s.fundRepo.ListFunds()
}

// UpdateFund patches fund product parameters. Only fields present in the
// request change; NAV fields are owned by the valuation path.
func (s *FundService) UpdateFund(id string, req request.UpdateFundRequest) (model.Fund, error) {
	var updated model.Fund

	err := withTx(s.db, func(tx *sql.Tx) error {
		funds := s.fundRepo.WithTx(tx)

		fund, err := funds.GetFund(id)
		if err != nil {
			return err
		}

		if req.FundName != nil {
			fund.FundName = *req.FundName
		}
		if req.FundType != nil {
			fund.FundType = *req.FundType
		}
		if req.RiskLevel != nil {
			fund.RiskLevel = *req.RiskLevel
		}
		if req.NavInitial != nil {
			fund.NavInitial = *req.NavInitial
		}
		if req.SubscriptionFeeRate != nil {
			fund.SubscriptionFeeRate = *req.SubscriptionFeeRate
		}
		if req.RedemptionFeeRate != nil {
			fund.RedemptionFeeRate = *req.RedemptionFeeRate
		}
		if req.ManagementFeeRate != nil {
			fund.ManagementFeeRate = *req.ManagementFeeRate
		}
		if req.LockupPeriodDays != nil {
			fund.LockupPeriodDays = *req.LockupPeriodDays
		}
		if req.SettlementCycleDays != nil {
			fund.SettlementCycleDays = *req.SettlementCycleDays
		}
		if req.Status != nil {
			fund.Status = *req.Status
		}
		if req.Manager != nil {
			fund.Manager = *req.Manager
		}
		if req.Strategy != nil {
			fund.Strategy = *req.Strategy
		}

		if err := funds.UpdateFund(&fund); err != nil {
			return err
		}
		updated = fund

		return s.logRepo.WithTx(tx).InsertLog(&model.OperationLog{
			ID:          uuid.New().String(),
			Actor:       "admin",
			ActionType:  "FUND_UPDATE",
			Target:      fund.FundCode,
			Description: fmt.Sprintf("updated fund %s parameters", fund.FundCode),
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return model.Fund{}, err
	}
	return updated, nil
}
