package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/apperrors"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/request"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
)

// ValuationService ingests NAV points into a fund's history and keeps the
// fund's live NAV and every holding's valuation in sync with it.
type ValuationService struct {
	db          *sql.DB
	fundRepo    *repository.FundRepository
	navRepo     *repository.NavRepository
	holdingRepo *repository.HoldingRepository
	logRepo     *repository.OperationLogRepository
}

// NewValuationService creates a new ValuationService with the provided repository dependencies.
func NewValuationService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	navRepo *repository.NavRepository,
	holdingRepo *repository.HoldingRepository,
	logRepo *repository.OperationLogRepository,
) *ValuationService {
	return &ValuationService{
		db:          db,
		fundRepo:    fundRepo,
		navRepo:     navRepo,
		holdingRepo: holdingRepo,
		logRepo:     logRepo,
	}
}

// RecordNav ingests a single NAV point. The point is upserted into history
// by (fund, date); the fund's live NAV is then recomputed from the true
// latest dated record, so a backfill of an older date never moves the live
// NAV backwards.
func (s *ValuationService) RecordNav(fundID string, req request.NavRecordRequest) (*model.NavRecord, error) {
	record, err := s.buildRecord(fundID, req)
	if err != nil {
		return nil, err
	}

	err = withTx(s.db, func(tx *sql.Tx) error {
		if _, err := s.fundRepo.WithTx(tx).GetFund(fundID); err != nil {
			return err
		}
		if err := s.navRepo.WithTx(tx).UpsertNavRecord(record); err != nil {
			return err
		}
		return s.syncLiveNav(tx, fundID)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RecordNavBatch ingests a batch of NAV points as one atomic operation.
// All points validate up front; a single bad point rejects the whole
// batch. The live NAV is recomputed once, after all upserts.
func (s *ValuationService) RecordNavBatch(fundID string, req request.NavBatchRequest) (int, error) {
	if len(req.Records) == 0 {
		return 0, apperrors.ErrInvalidNavRecord
	}

	records := make([]*model.NavRecord, 0, len(req.Records))
	for _, r := range req.Records {
		record, err := s.buildRecord(fundID, r)
		if err != nil {
			return 0, err
		}
		records = append(records, record)
	}

	err := withTx(s.db, func(tx *sql.Tx) error {
		if _, err := s.fundRepo.WithTx(tx).GetFund(fundID); err != nil {
			return err
		}
		navs := s.navRepo.WithTx(tx)
		for _, record := range records {
			if err := navs.UpsertNavRecord(record); err != nil {
				return err
			}
		}
		return s.syncLiveNav(tx, fundID)
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// NavHistory returns the full NAV history of a fund, oldest first.
func (s *ValuationService) NavHistory(fundID string) ([]model.NavRecord, error) {
	if _, err := s.fundRepo.GetFund(fundID); err != nil {
		return nil, err
	}
	return s.navRepo.ListByFund(fundID)
}

func (s *ValuationService) buildRecord(fundID string, req request.NavRecordRequest) (*model.NavRecord, error) {
	if req.Nav <= 0 {
		return nil, apperrors.ErrInvalidNavRecord
	}
	navDate, err := time.Parse("2006-01-02", req.NavDate)
	if err != nil {
		return nil, apperrors.ErrInvalidNavRecord
	}

	navAccumulated := req.NavAccumulated
	if navAccumulated <= 0 {
		navAccumulated = req.Nav
	}

	return &model.NavRecord{
		ID:              uuid.New().String(),
		FundID:          fundID,
		NavDate:         navDate,
		Nav:             req.Nav,
		NavAccumulated:  navAccumulated,
		DailyReturnRate: req.DailyReturnRate,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// syncLiveNav recomputes the fund's live NAV from the latest dated history
// record and revalues every holding on the fund in the same transaction.
func (s *ValuationService) syncLiveNav(tx *sql.Tx, fundID string) error {
	latest, err := s.navRepo.WithTx(tx).GetLatest(fundID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.fundRepo.WithTx(tx).UpdateCurrentNav(fundID, latest.Nav, latest.NavAccumulated, latest.DailyReturnRate); err != nil {
		return err
	}
	return s.holdingRepo.WithTx(tx).RevalueByFund(fundID, latest.Nav)
}
