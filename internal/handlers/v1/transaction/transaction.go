package transaction

import (
	"time"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/ledger"
)

// Transaction is the API response model for a root transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID            int64       `json:"id" doc:"Transaction ID"`
	Date          string      `json:"date" doc:"Transaction date, YYYY-MM-DD"`
	AccountID     int64       `json:"account_id" doc:"Account ID"`
	CategoryID    *int64      `json:"category_id" doc:"Category ID, null when uncategorized"`
	CategoryName  string      `json:"category_name" doc:"Resolved category name"`
	Type          string      `json:"type" doc:"EXPENSE, INCOME or TRANSFER"`
	AmountTWD     float64     `json:"amount_twd" doc:"Amount in the reporting currency"`
	AmountForeign *float64    `json:"amount_foreign" doc:"Amount in the original currency"`
	ExchangeRate  *float64    `json:"exchange_rate" doc:"Rate used for the foreign amount"`
	Note          string      `json:"note" doc:"Free text note"`
	CreatedAt     string      `json:"created_at" doc:"RFC3339 creation time"`
	Children      []SplitLine `json:"children" doc:"Split lines, empty when the transaction is not split"`
}

// SplitLine is the API response model for one split line.
type SplitLine struct {
	ID           int64   `json:"id" doc:"Split line ID"`
	ParentID     int64   `json:"parent_id" doc:"Root transaction ID"`
	CategoryID   *int64  `json:"category_id" doc:"Category ID"`
	CategoryName string  `json:"category_name" doc:"Resolved category name"`
	AmountTWD    float64 `json:"amount_twd" doc:"Amount in the reporting currency"`
	Note         string  `json:"note" doc:"Free text note"`
}

// TransactionBody is the request body for creating or replacing a
// transaction. Fields are optional in the schema and checked by the handler
// so missing values produce 400 responses.
type TransactionBody struct {
	Main     *MainBody   `json:"main,omitempty" doc:"Root transaction fields"`
	Children []ChildBody `json:"children,omitempty" doc:"Split lines, replacing any existing ones"`
}

// MainBody holds the root transaction fields.
type MainBody struct {
	Date          string   `json:"date,omitempty" doc:"Transaction date, YYYY-MM-DD"`
	AccountID     *int64   `json:"account_id,omitempty" doc:"Account ID"`
	CategoryID    *int64   `json:"category_id,omitempty" doc:"Category ID"`
	Type          string   `json:"type,omitempty" doc:"EXPENSE, INCOME, TRANSFER or TRANSFER_IN, defaults to EXPENSE"`
	AmountTWD     *float64 `json:"amount_twd,omitempty" doc:"Amount in the reporting currency"`
	AmountForeign *float64 `json:"amount_foreign,omitempty" doc:"Amount in the account currency, required when the account is not held in the reporting currency"`
	ExchangeRate  *float64 `json:"exchange_rate,omitempty" doc:"Rate used for the foreign amount"`
	Note          string   `json:"note,omitempty" doc:"Free text note"`
}

// ChildBody holds one split line.
type ChildBody struct {
	CategoryID *int64   `json:"category_id,omitempty" doc:"Category ID"`
	AmountTWD  *float64 `json:"amount_twd,omitempty" doc:"Amount in the reporting currency"`
	Note       string   `json:"note,omitempty" doc:"Free text note"`
}

// IDResponse is returned by the write endpoints.
type IDResponse struct {
	ID int64 `json:"id" doc:"Transaction ID"`
}

// parseTransactionBody converts a request body to the root and its lines.
func parseTransactionBody(body *TransactionBody) (ledger.RootTransaction, []ledger.SplitLine, error) {
	if body.Main == nil {
		return ledger.RootTransaction{}, nil, ledger.NewValidationError("main is required")
	}
	main := body.Main

	if main.Date == "" {
		return ledger.RootTransaction{}, nil, ledger.NewValidationError("date is required")
	}
	date, err := params.ParseDate("date", main.Date)
	if err != nil {
		return ledger.RootTransaction{}, nil, err
	}
	if main.AccountID == nil {
		return ledger.RootTransaction{}, nil, ledger.NewValidationError("account_id is required")
	}
	if main.AmountTWD == nil {
		return ledger.RootTransaction{}, nil, ledger.NewValidationError("amount_twd is required")
	}

	txType := ledger.TypeExpense
	if main.Type != "" {
		if txType, err = ledger.ParseTransactionType(main.Type); err != nil {
			return ledger.RootTransaction{}, nil, err
		}
	}

	root := ledger.RootTransaction{
		Date:          date,
		AccountID:     *main.AccountID,
		CategoryID:    main.CategoryID,
		Type:          txType,
		Amount:        params.Amount(*main.AmountTWD),
		AmountForeign: params.OptionalAmount(main.AmountForeign),
		ExchangeRate:  params.OptionalAmount(main.ExchangeRate),
		Note:          main.Note,
	}

	lines := make([]ledger.SplitLine, len(body.Children))
	for i, child := range body.Children {
		if child.AmountTWD == nil {
			return ledger.RootTransaction{}, nil, ledger.NewValidationError("children[%d].amount_twd is required", i)
		}
		lines[i] = ledger.SplitLine{
			CategoryID: child.CategoryID,
			Amount:     params.Amount(*child.AmountTWD),
			Note:       child.Note,
		}
	}

	return root, lines, nil
}

func fromRoot(root ledger.RootTransaction) Transaction {
	children := make([]SplitLine, len(root.Children))
	for i, line := range root.Children {
		children[i] = SplitLine{
			ID:           line.ID,
			ParentID:     line.ParentID,
			CategoryID:   line.CategoryID,
			CategoryName: line.CategoryName,
			AmountTWD:    params.Number(line.Amount),
			Note:         line.Note,
		}
	}

	return Transaction{
		ID:            root.ID,
		Date:          params.FormatDate(root.Date),
		AccountID:     root.AccountID,
		CategoryID:    root.CategoryID,
		CategoryName:  root.CategoryName,
		Type:          string(root.Type),
		AmountTWD:     params.Number(root.Amount),
		AmountForeign: params.OptionalNumber(root.AmountForeign),
		ExchangeRate:  params.OptionalNumber(root.ExchangeRate),
		Note:          root.Note,
		CreatedAt:     root.CreatedAt.Format(time.RFC3339),
		Children:      children,
	}
}
