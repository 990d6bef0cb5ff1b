package account

import (
	"time"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	ID        int64   `json:"id" doc:"Account ID"`
	Name      string  `json:"name" doc:"Account name"`
	Currency  string  `json:"currency" doc:"ISO currency code"`
	Balance   float64 `json:"balance" doc:"Stored current balance"`
	CreatedAt string  `json:"created_at" doc:"RFC3339 creation time"`
}

func fromAccount(acc ledger.Account) Account {
	return Account{
		ID:        acc.ID,
		Name:      acc.Name,
		Currency:  acc.Currency,
		Balance:   params.Number(acc.Balance),
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
	}
}
