package transaction

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

const (
	tableName = "transactions"

	columnID            = "id"
	columnDate          = "date"
	columnAccountID     = "account_id"
	columnCategoryID    = "category_id"
	columnType          = "type"
	columnAmountTWD     = "amount_twd"
	columnAmountForeign = "amount_foreign"
	columnExchangeRate  = "exchange_rate"
	columnNote          = "note"
	columnParentID      = "parent_id"
)

// Transaction represents a transaction record joined with its category.
// Split lines have ParentID set.
type Transaction struct {
	ID            int64                     `db:"id"`
	Date          time.Time                 `db:"date"`
	AccountID     int64                     `db:"account_id"`
	CategoryID    null.Val[int64]           `db:"category_id"`
	Type          string                    `db:"type"`
	AmountTWD     decimal.Decimal           `db:"amount_twd"`
	AmountForeign null.Val[decimal.Decimal] `db:"amount_foreign"`
	ExchangeRate  null.Val[decimal.Decimal] `db:"exchange_rate"`
	Note          string                    `db:"note"`
	ParentID      null.Val[int64]           `db:"parent_id"`
	CreatedAt     time.Time                 `db:"created_at"`
	CategoryName  null.Val[string]          `db:"category_name"`
	CategoryType  null.Val[string]          `db:"category_type"`
}

// IsRoot reports whether the record has no parent.
func (t *Transaction) IsRoot() bool {
	return t.ParentID.IsNull()
}

func (t *Transaction) ToRoot() ledger.RootTransaction {
	return ledger.RootTransaction{
		ID:            t.ID,
		Date:          t.Date,
		AccountID:     t.AccountID,
		CategoryID:    t.CategoryID.Ptr(),
		CategoryName:  t.CategoryName.GetOr(""),
		CategoryType:  ledger.TransactionType(t.CategoryType.GetOr("")),
		Type:          ledger.TransactionType(t.Type),
		Amount:        t.AmountTWD,
		AmountForeign: t.AmountForeign.Ptr(),
		ExchangeRate:  t.ExchangeRate.Ptr(),
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
		Children:      []ledger.SplitLine{},
	}
}

func (t *Transaction) ToSplitLine() ledger.SplitLine {
	return ledger.SplitLine{
		ID:           t.ID,
		ParentID:     t.ParentID.GetOr(0),
		CategoryID:   t.CategoryID.Ptr(),
		CategoryName: t.CategoryName.GetOr(""),
		Amount:       t.AmountTWD,
		Note:         t.Note,
		CreatedAt:    t.CreatedAt,
	}
}

func (t *Transaction) ToEntry() ledger.Entry {
	return ledger.Entry{
		Date:         t.Date,
		Type:         ledger.TransactionType(t.Type),
		Amount:       t.AmountTWD,
		Note:         t.Note,
		CategoryName: t.CategoryName.GetOr(""),
		CategoryType: ledger.TransactionType(t.CategoryType.GetOr("")),
	}
}

// TransactionCreate is the input for inserting a root or a split line.
type TransactionCreate struct {
	Date          time.Time
	AccountID     int64
	CategoryID    null.Val[int64]
	Type          ledger.TransactionType
	Amount        decimal.Decimal
	AmountForeign null.Val[decimal.Decimal]
	ExchangeRate  null.Val[decimal.Decimal]
	Note          string
	ParentID      null.Val[int64]
}

// TransactionUpdate overwrites every field of a root transaction.
type TransactionUpdate struct {
	Date          time.Time
	AccountID     int64
	CategoryID    null.Val[int64]
	Type          ledger.TransactionType
	Amount        decimal.Decimal
	AmountForeign null.Val[decimal.Decimal]
	ExchangeRate  null.Val[decimal.Decimal]
	Note          string
}

// RootFilter specifies filters for listing root transactions. A nil
// AccountID lists roots of every account.
type RootFilter struct {
	AccountID *int64
	Limit     int
}

// RangeFilter selects roots for aggregation. Nil bounds are open and empty
// AccountIDs selects every account.
type RangeFilter struct {
	Start      *time.Time
	End        *time.Time
	AccountIDs []int64
}

// AccountEffect is the net forward balance effect of an account's roots,
// summed over the reporting currency amounts and over the foreign amounts.
type AccountEffect struct {
	AccountID        int64           `db:"account_id"`
	NetEffect        decimal.Decimal `db:"net_effect"`
	NetEffectForeign decimal.Decimal `db:"net_effect_foreign"`
}

// ITransactionReader defines the read operations on transactions.
type ITransactionReader interface {
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	ListRoots(ctx context.Context, filter *RootFilter) ([]*Transaction, error)
	ListSplitLines(ctx context.Context, parentID int64) ([]*Transaction, error)
	ListRange(ctx context.Context, filter *RangeFilter) ([]*Transaction, error)
	SumEffectsByAccount(ctx context.Context) ([]*AccountEffect, error)
}
