package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrFundNotFound indicates that a fund with the given ID does not exist.
	ErrFundNotFound = errors.New("fund not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrHoldingNotFound indicates that no holding exists for the given user/fund pair.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrDividendNotFound indicates that a dividend record with the given ID does not exist.
	ErrDividendNotFound = errors.New("dividend not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientFunds indicates that a subscription exceeds the
	// account's settled cash balance.
	ErrInsufficientFunds = errors.New("account balance insufficient")

	// ErrInsufficientShares indicates that a redemption cannot be completed
	// because the holding does not contain enough shares.
	ErrInsufficientShares = errors.New("insufficient shares for redemption")

	// ErrInvalidNavRecord indicates a NAV record with a non-positive NAV value.
	ErrInvalidNavRecord = errors.New("invalid nav record")

	// ErrInvalidAmount indicates that an amount field has an invalid non-positive value.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidAuditAction indicates an audit action other than confirm or reject.
	ErrInvalidAuditAction = errors.New("invalid audit action")

	// ErrTransactionTerminal indicates an audit on a transaction already in
	// a terminal state (completed or rejected).
	ErrTransactionTerminal = errors.New("transaction already in terminal state")

	// ErrFundNotTradable indicates the fund's status does not allow new trades.
	ErrFundNotTradable = errors.New("fund is not open for trading")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveAccounts     = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveAccount      = errors.New("failed to retrieve account")
	ErrFailedToRetrieveFunds        = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveFund         = errors.New("failed to retrieve fund")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveNavHistory   = errors.New("failed to retrieve nav history")
	ErrFailedToRetrieveDividends    = errors.New("failed to retrieve dividends")
	ErrFailedToRetrieveLogs         = errors.New("failed to retrieve operation logs")
	ErrFailedToRetrieveSummary      = errors.New("failed to retrieve platform summary")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the ledger is in an inconsistent
	// state (e.g., a transaction references a fund that does not exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
