package account

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

const (
	tableName = "accounts"

	columnID        = "id"
	columnName      = "name"
	columnCurrency  = "currency"
	columnBalance   = "balance"
	columnCreatedAt = "created_at"
)

var selectColumns = []any{columnID, columnName, columnCurrency, columnBalance, columnCreatedAt}

// Account represents an account record.
type Account struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Currency  string          `db:"currency"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
}

// ToLedger converts the record to the domain account.
func (a *Account) ToLedger() ledger.Account {
	return ledger.Account{
		ID:        a.ID,
		Name:      a.Name,
		Currency:  a.Currency,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}

// AccountFilter specifies filters for listing accounts. Empty IDs lists all.
type AccountFilter struct {
	IDs []int64
}

// IAccountReader defines the read operations on accounts.
type IAccountReader interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]*Account, error)
}
