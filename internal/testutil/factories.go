package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/model"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithCashBalance(500000).
//	    WithUnsettledCash(1000).
//	    Build(t, db)
type AccountBuilder struct {
	ID            string
	Username      string
	RealName      string
	UserType      int
	CashBalance   float64
	UnsettledCash float64
	RiskLevel     int
	Status        int
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:            MakeID(),
		Username:      MakeUsername("investor"),
		RealName:      "Test Investor",
		UserType:      model.UserTypeInvestor,
		CashBalance:   500000,
		UnsettledCash: 0,
		RiskLevel:     3,
		Status:        model.AccountStatusNormal,
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithCashBalance sets the settled cash balance.
func (b *AccountBuilder) WithCashBalance(balance float64) *AccountBuilder {
	b.CashBalance = balance
	return b
}

// WithUnsettledCash sets the unsettled cash amount.
func (b *AccountBuilder) WithUnsettledCash(amount float64) *AccountBuilder {
	b.UnsettledCash = amount
	return b
}

// WithRealName sets the display name.
func (b *AccountBuilder) WithRealName(name string) *AccountBuilder {
	b.RealName = name
	return b
}

// AsAdmin marks the account as an administrator.
func (b *AccountBuilder) AsAdmin() *AccountBuilder {
	b.UserType = model.UserTypeAdmin
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	query := `
		INSERT INTO account (
			id, username, real_name, user_type, virtual_account,
			cash_balance, unsettled_cash, risk_level, status, is_qualified_investor, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	virtualAccount := "VA" + randomAlphanumeric(10)

	_, err := db.Exec(query,
		b.ID, b.Username, b.RealName, b.UserType, virtualAccount,
		b.CashBalance, b.UnsettledCash, b.RiskLevel, b.Status, true,
		now.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:                  b.ID,
		Username:            b.Username,
		RealName:            b.RealName,
		UserType:            b.UserType,
		VirtualAccount:      virtualAccount,
		CashBalance:         b.CashBalance,
		UnsettledCash:       b.UnsettledCash,
		RiskLevel:           b.RiskLevel,
		Status:              b.Status,
		IsQualifiedInvestor: true,
		CreatedAt:           now,
	}
}

// CreateAccount creates an account with the given cash balance and default values.
func CreateAccount(t *testing.T, db *sql.DB, cashBalance float64) model.Account {
	t.Helper()
	return NewAccount().WithCashBalance(cashBalance).Build(t, db)
}

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	fund := testutil.NewFund().
//	    WithNav(1.25).
//	    WithSubscriptionFeeRate(0.0015).
//	    Build(t, db)
type FundBuilder struct {
	ID                  string
	FundCode            string
	FundName            string
	FundType            int
	RiskLevel           int
	NavCurrent          float64
	NavInitial          float64
	SubscriptionFeeRate float64
	RedemptionFeeRate   float64
	SettlementCycleDays int
	Status              int
}

// NewFund creates a FundBuilder with sensible defaults.
func NewFund() *FundBuilder {
	return &FundBuilder{
		ID:                  MakeID(),
		FundCode:            MakeFundCode(),
		FundName:            MakeFundName("Test Fund"),
		FundType:            1,
		RiskLevel:           3,
		NavCurrent:          1.0,
		NavInitial:          1.0,
		SubscriptionFeeRate: 0,
		RedemptionFeeRate:   0,
		SettlementCycleDays: 1,
		Status:              model.FundStatusActive,
	}
}

// WithID sets a custom ID.
func (b *FundBuilder) WithID(id string) *FundBuilder {
	b.ID = id
	return b
}

// WithNav sets the current NAV.
func (b *FundBuilder) WithNav(nav float64) *FundBuilder {
	b.NavCurrent = nav
	return b
}

// WithSubscriptionFeeRate sets the subscription fee rate.
func (b *FundBuilder) WithSubscriptionFeeRate(rate float64) *FundBuilder {
	b.SubscriptionFeeRate = rate
	return b
}

// WithRedemptionFeeRate sets the redemption fee rate.
func (b *FundBuilder) WithRedemptionFeeRate(rate float64) *FundBuilder {
	b.RedemptionFeeRate = rate
	return b
}

// WithSettlementCycleDays sets the redemption settlement cycle.
func (b *FundBuilder) WithSettlementCycleDays(days int) *FundBuilder {
	b.SettlementCycleDays = days
	return b
}

// WithStatus sets the fund lifecycle status.
func (b *FundBuilder) WithStatus(status int) *FundBuilder {
	b.Status = status
	return b
}

// Suspended marks the fund as suspended.
func (b *FundBuilder) Suspended() *FundBuilder {
	b.Status = model.FundStatusSuspended
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	query := `
		INSERT INTO fund (
			id, fund_code, fund_name, fund_type, risk_level,
			nav_current, nav_accumulated, daily_return_rate, nav_initial,
			subscription_fee_rate, redemption_fee_rate, management_fee_rate,
			lockup_period_days, settlement_cycle_days, status,
			manager, strategy, issue_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()

	_, err := db.Exec(query,
		b.ID, b.FundCode, b.FundName, b.FundType, b.RiskLevel,
		b.NavCurrent, b.NavCurrent, 0.0, b.NavInitial,
		b.SubscriptionFeeRate, b.RedemptionFeeRate, 0.0,
		0, b.SettlementCycleDays, b.Status,
		"Test Manager", "balanced", now.Format("2006-01-02"),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{
		ID:                  b.ID,
		FundCode:            b.FundCode,
		FundName:            b.FundName,
		FundType:            b.FundType,
		RiskLevel:           b.RiskLevel,
		NavCurrent:          b.NavCurrent,
		NavAccumulated:      b.NavCurrent,
		NavInitial:          b.NavInitial,
		SubscriptionFeeRate: b.SubscriptionFeeRate,
		RedemptionFeeRate:   b.RedemptionFeeRate,
		SettlementCycleDays: b.SettlementCycleDays,
		Status:              b.Status,
		Manager:             "Test Manager",
		Strategy:            "balanced",
		IssueDate:           now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// CreateFund creates a fund with the given NAV and default values.
func CreateFund(t *testing.T, db *sql.DB, nav float64) model.Fund {
	t.Helper()
	return NewFund().WithNav(nav).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test holdings.
type HoldingBuilder struct {
	ID          string
	UserID      string
	FundID      string
	Shares      float64
	AverageCost float64
	LatestNav   float64
}

// NewHolding creates a HoldingBuilder for a (user, fund) pair.
func NewHolding(userID, fundID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:          MakeID(),
		UserID:      userID,
		FundID:      fundID,
		Shares:      1000,
		AverageCost: 1.0,
		LatestNav:   1.0,
	}
}

// WithShares sets the share count.
func (b *HoldingBuilder) WithShares(shares float64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithAverageCost sets the cost basis.
func (b *HoldingBuilder) WithAverageCost(cost float64) *HoldingBuilder {
	b.AverageCost = cost
	return b
}

// WithLatestNav sets the NAV the holding was last valued at.
func (b *HoldingBuilder) WithLatestNav(nav float64) *HoldingBuilder {
	b.LatestNav = nav
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	query := `
		INSERT INTO holding (
			id, user_id, fund_id, shares, average_cost, latest_nav,
			total_asset, profit_amount, profit_rate, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	totalAsset := b.Shares * b.LatestNav
	profitAmount := totalAsset - b.AverageCost*b.Shares
	profitRate := 0.0
	if b.AverageCost > 0 {
		profitRate = (b.LatestNav - b.AverageCost) / b.AverageCost
	}

	_, err := db.Exec(query,
		b.ID, b.UserID, b.FundID, b.Shares, b.AverageCost, b.LatestNav,
		totalAsset, profitAmount, profitRate,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:           b.ID,
		UserID:       b.UserID,
		FundID:       b.FundID,
		Shares:       b.Shares,
		AverageCost:  b.AverageCost,
		LatestNav:    b.LatestNav,
		TotalAsset:   totalAsset,
		ProfitAmount: profitAmount,
		ProfitRate:   profitRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// TransactionBuilder provides a fluent interface for creating transactions
// directly in the trade log, bypassing the trade service.
type TransactionBuilder struct {
	ID                 string
	TradeNo            string
	UserID             string
	FundID             string
	TradeType          int
	Amount             float64
	Shares             float64
	Nav                float64
	ActualAmount       float64
	Status             int
	CoolingOffDeadline *time.Time
	SettleTime         *time.Time
}

// NewTransaction creates a TransactionBuilder with defaults.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:           MakeID(),
		TradeNo:      "TX" + randomAlphanumeric(12),
		UserID:       userID,
		TradeType:    model.TradeTypeSubscribe,
		Amount:       1000,
		Nav:          1.0,
		ActualAmount: 1000,
		Status:       model.TradeStatusCoolingOff,
	}
}

// WithFund sets the fund reference.
func (b *TransactionBuilder) WithFund(fundID string) *TransactionBuilder {
	b.FundID = fundID
	return b
}

// WithType sets the trade type.
func (b *TransactionBuilder) WithType(tradeType int) *TransactionBuilder {
	b.TradeType = tradeType
	return b
}

// WithStatus sets the lifecycle status.
func (b *TransactionBuilder) WithStatus(status int) *TransactionBuilder {
	b.Status = status
	return b
}

// WithAmount sets both amount and actual amount.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.Amount = amount
	b.ActualAmount = amount
	return b
}

// WithShares sets the share count.
func (b *TransactionBuilder) WithShares(shares float64) *TransactionBuilder {
	b.Shares = shares
	return b
}

// WithCoolingOffDeadline sets the cooling-off deadline.
func (b *TransactionBuilder) WithCoolingOffDeadline(deadline time.Time) *TransactionBuilder {
	b.CoolingOffDeadline = &deadline
	return b
}

// WithSettleTime sets the scheduled settlement time.
func (b *TransactionBuilder) WithSettleTime(settleTime time.Time) *TransactionBuilder {
	b.SettleTime = &settleTime
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (
			id, trade_no, user_id, fund_id, trade_type, amount, shares, nav, fee,
			actual_amount, status, apply_time, cooling_off_deadline, settle_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()

	var fundID any
	if b.FundID != "" {
		fundID = b.FundID
	}
	var deadline, settleTime any
	if b.CoolingOffDeadline != nil {
		deadline = b.CoolingOffDeadline.UTC().Format(time.RFC3339)
	}
	if b.SettleTime != nil {
		settleTime = b.SettleTime.UTC().Format(time.RFC3339)
	}

	_, err := db.Exec(query,
		b.ID, b.TradeNo, b.UserID, fundID, b.TradeType, b.Amount, b.Shares, b.Nav, 0.0,
		b.ActualAmount, b.Status, now.Format(time.RFC3339), deadline, settleTime,
		now.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return model.Transaction{
		ID:                 b.ID,
		TradeNo:            b.TradeNo,
		UserID:             b.UserID,
		FundID:             b.FundID,
		TradeType:          b.TradeType,
		Amount:             b.Amount,
		Shares:             b.Shares,
		Nav:                b.Nav,
		ActualAmount:       b.ActualAmount,
		Status:             b.Status,
		ApplyTime:          now,
		CoolingOffDeadline: b.CoolingOffDeadline,
		SettleTime:         b.SettleTime,
		CreatedAt:          now,
	}
}
