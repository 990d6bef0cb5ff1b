package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction and the category it may use.
type TransactionType string

const (
	TypeExpense  TransactionType = "EXPENSE"
	TypeIncome   TransactionType = "INCOME"
	TypeTransfer TransactionType = "TRANSFER"

	// TypeBalance only appears on the synthetic initial balance row of a
	// reconstructed ledger. It is never stored.
	TypeBalance TransactionType = "BALANCE"

	// TypeTransferIn is accepted from clients and stored as TypeIncome.
	TypeTransferIn TransactionType = "TRANSFER_IN"
)

// ParseTransactionType returns the stored type for a client supplied value.
// TRANSFER_IN maps to INCOME.
func ParseTransactionType(value string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(value))) {
	case TypeExpense:
		return TypeExpense, nil
	case TypeIncome, TypeTransferIn:
		return TypeIncome, nil
	case TypeTransfer:
		return TypeTransfer, nil
	}
	return "", NewValidationError("type must be one of EXPENSE, INCOME, TRANSFER, TRANSFER_IN")
}

// ParseCategoryType returns the category type selectable for a transaction
// type. TRANSFER_IN selects TRANSFER categories.
func ParseCategoryType(value string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(value))) {
	case TypeExpense:
		return TypeExpense, nil
	case TypeIncome:
		return TypeIncome, nil
	case TypeTransfer, TypeTransferIn:
		return TypeTransfer, nil
	}
	return "", NewValidationError("category type must be one of EXPENSE, INCOME, TRANSFER")
}

// Account is a ledger account with its stored balance in its own currency.
type Account struct {
	ID        int64
	Name      string
	Currency  string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// Category classifies transactions.
type Category struct {
	ID   int64
	Name string
	Type TransactionType
}

// RootTransaction is a transaction without a parent. Its Amount is the
// authoritative total even when Children are present.
type RootTransaction struct {
	ID            int64
	Date          time.Time
	AccountID     int64
	CategoryID    *int64
	CategoryName  string
	CategoryType  TransactionType
	Type          TransactionType
	Amount        decimal.Decimal
	AmountForeign *decimal.Decimal
	ExchangeRate  *decimal.Decimal
	Note          string
	CreatedAt     time.Time
	Children      []SplitLine
}

// SplitLine is one component of a root transaction. Date, account and type
// always equal the parent's.
type SplitLine struct {
	ID           int64
	ParentID     int64
	CategoryID   *int64
	CategoryName string
	Amount       decimal.Decimal
	Note         string
	CreatedAt    time.Time
}

// SplitTotal sums the amounts of the split lines.
func (r *RootTransaction) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Children {
		total = total.Add(line.Amount)
	}
	return total
}

// SplitMismatch reports whether split lines exist and do not add up to the
// root amount. The store accepts such transactions.
func (r *RootTransaction) SplitMismatch() bool {
	return len(r.Children) > 0 && !r.SplitTotal().Equal(r.Amount)
}

// Validate checks the fields required to record a root transaction.
func (r *RootTransaction) Validate() error {
	if r.Date.IsZero() {
		return NewValidationError("date is required")
	}
	if r.AccountID <= 0 {
		return NewValidationError("account_id is required")
	}
	if r.Amount.IsNegative() {
		return NewValidationError("amount_twd must not be negative")
	}
	if r.AmountForeign != nil && r.AmountForeign.IsNegative() {
		return NewValidationError("amount_foreign must not be negative")
	}
	switch r.Type {
	case TypeExpense, TypeIncome, TypeTransfer:
	default:
		return NewValidationError("type must be one of EXPENSE, INCOME, TRANSFER")
	}
	for _, line := range r.Children {
		if line.Amount.IsNegative() {
			return NewValidationError("split line amount_twd must not be negative")
		}
	}
	return nil
}

// BalanceEffect is the change a posted root transaction applies to its
// account balance: INCOME adds, every other type subtracts.
func BalanceEffect(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == TypeIncome {
		return amount
	}
	return amount.Neg()
}

// PostsReportingAmount reports whether an account held in accountCurrency
// books the reporting currency amount of its transactions.
func PostsReportingAmount(accountCurrency, reportingCurrency string) bool {
	return strings.EqualFold(strings.TrimSpace(accountCurrency), strings.TrimSpace(reportingCurrency))
}

// PostingAmount is the amount r moves on an account held in accountCurrency.
// Reporting currency accounts post Amount, other accounts post AmountForeign.
// ok is false when a foreign currency account has no AmountForeign.
func (r *RootTransaction) PostingAmount(accountCurrency, reportingCurrency string) (decimal.Decimal, bool) {
	if PostsReportingAmount(accountCurrency, reportingCurrency) {
		return r.Amount, true
	}
	if r.AmountForeign == nil {
		return decimal.Zero, false
	}
	return *r.AmountForeign, true
}
