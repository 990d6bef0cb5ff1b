package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
)

// LedgerRow is one row of an account ledger. The last row is the initial
// balance, with type BALANCE and no transaction id or amount.
type LedgerRow struct {
	TransactionID  *int64   `json:"transaction_id" doc:"Root transaction ID, null on the initial balance row"`
	Date           string   `json:"date" doc:"YYYY-MM-DD"`
	Type           string   `json:"type" doc:"EXPENSE, INCOME, TRANSFER or BALANCE"`
	CategoryName   string   `json:"category_name" doc:"Resolved category name"`
	Note           string   `json:"note" doc:"Free text note"`
	Amount         *float64 `json:"amount" doc:"Amount posted to the account, null on the initial balance row"`
	RunningBalance float64  `json:"running_balance" doc:"Balance just before this transaction"`
}

// LedgerBody is the response body of an account ledger.
type LedgerBody struct {
	AccountID      int64       `json:"account_id" doc:"Account ID"`
	Currency       string      `json:"currency" doc:"Account currency of every amount and balance"`
	CurrentBalance float64     `json:"current_balance" doc:"Stored balance"`
	InitialBalance float64     `json:"initial_balance" doc:"Configured initial balance"`
	Drift          float64     `json:"drift" doc:"Difference between the stored balance and the recorded history, zero when consistent"`
	Rows           []LedgerRow `json:"rows" doc:"Rows most recent first, ending with the initial balance"`
}

type AccountLedgerInput struct {
	ID int64 `path:"id" doc:"Account ID"`
}

type AccountLedgerOutput struct {
	Body LedgerBody
}

type ledgerReader interface {
	AccountLedger(ctx context.Context, accountID int64) (*ledger.Ledger, error)
}

// AccountLedgerHandler handles GET /api/accounts/{id}/ledger.
type AccountLedgerHandler struct {
	TransactionService ledgerReader
}

func NewAccountLedgerHandler(svc ledgerReader) *AccountLedgerHandler {
	return &AccountLedgerHandler{TransactionService: svc}
}

func (h *AccountLedgerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "account-ledger",
		Method:      http.MethodGet,
		Path:        "/api/accounts/{id}/ledger",
		Summary:     "Account ledger",
		Description: "Returns the account's root transactions with the running balance seen before each one.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *AccountLedgerHandler) handle(ctx context.Context, input *AccountLedgerInput) (*AccountLedgerOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("accountLedgerMs")
	}
	result, err := h.TransactionService.AccountLedger(ctx, input.ID)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	if logData != nil {
		logData.AddData("ledgerRowCount", len(result.Rows))
		if !result.Consistent() {
			logData.AddData("drift", result.Drift.String())
		}
	}

	body := LedgerBody{
		AccountID:      result.AccountID,
		Currency:       result.Currency,
		CurrentBalance: params.Number(result.CurrentBalance),
		InitialBalance: params.Number(result.InitialBalance),
		Drift:          params.Number(result.Drift),
		Rows:           make([]LedgerRow, len(result.Rows)),
	}
	for i, row := range result.Rows {
		out := LedgerRow{
			Date:           params.FormatDate(row.Date),
			Type:           string(row.Type),
			Amount:         params.OptionalNumber(row.Amount),
			RunningBalance: params.Number(row.RunningBalance),
		}
		if row.Transaction != nil {
			id := row.Transaction.ID
			out.TransactionID = &id
			out.CategoryName = row.Transaction.CategoryName
			out.Note = row.Transaction.Note
		}
		body.Rows[i] = out
	}

	return &AccountLedgerOutput{Body: body}, nil
}
