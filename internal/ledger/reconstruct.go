package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one line of a reconstructed account ledger. RunningBalance is
// the balance immediately before the transaction was applied. The trailing
// initial balance row has Type BALANCE and no Transaction.
type LedgerRow struct {
	Transaction    *RootTransaction
	Type           TransactionType
	Date           time.Time
	Amount         *decimal.Decimal
	RunningBalance decimal.Decimal
}

// Ledger is the reconstructed running balance trail of one account. Amounts
// and balances are in the account currency.
type Ledger struct {
	AccountID      int64
	Currency       string
	CurrentBalance decimal.Decimal
	InitialBalance decimal.Decimal
	Rows           []LedgerRow

	// Drift is what remains after undoing every transaction from the current
	// balance, minus the initial balance. It is zero when the stored balance
	// agrees with the recorded history.
	Drift decimal.Decimal
}

// Consistent reports whether the stored balance matches the history.
func (l *Ledger) Consistent() bool {
	return l.Drift.IsZero()
}

// Reconstructor replays account history backward from the stored balance.
type Reconstructor struct {
	initialBalances   map[int64]decimal.Decimal
	ledgerStart       time.Time
	reportingCurrency string
}

func NewReconstructor(initialBalances map[int64]decimal.Decimal, ledgerStart time.Time, reportingCurrency string) *Reconstructor {
	balances := make(map[int64]decimal.Decimal, len(initialBalances))
	for id, amount := range initialBalances {
		balances[id] = amount
	}
	return &Reconstructor{
		initialBalances:   balances,
		ledgerStart:       ledgerStart,
		reportingCurrency: reportingCurrency,
	}
}

// InitialBalance returns the configured starting balance of an account, zero
// when none is configured.
func (r *Reconstructor) InitialBalance(accountID int64) decimal.Decimal {
	if amount, ok := r.initialBalances[accountID]; ok {
		return amount
	}
	return decimal.Zero
}

// Reconstruct walks roots, which must be ordered most recent first, and
// annotates each with the balance seen just before it was posted. Split lines
// are ignored; only the root's posting amount moves the balance. A foreign
// currency root without a foreign amount posts nothing.
func (r *Reconstructor) Reconstruct(account Account, roots []RootTransaction) *Ledger {
	initial := r.InitialBalance(account.ID)
	rows := make([]LedgerRow, 0, len(roots)+1)

	accumulator := account.Balance
	for i := range roots {
		root := &roots[i]
		amount, _ := root.PostingAmount(account.Currency, r.reportingCurrency)
		rows = append(rows, LedgerRow{
			Transaction:    root,
			Type:           root.Type,
			Date:           root.Date,
			Amount:         &amount,
			RunningBalance: accumulator,
		})
		accumulator = accumulator.Sub(BalanceEffect(root.Type, amount))
	}

	rows = append(rows, LedgerRow{
		Type:           TypeBalance,
		Date:           r.ledgerStart,
		RunningBalance: initial,
	})

	return &Ledger{
		AccountID:      account.ID,
		Currency:       account.Currency,
		CurrentBalance: account.Balance,
		InitialBalance: initial,
		Rows:           rows,
		Drift:          accumulator.Sub(initial),
	}
}

// DerivedBalance is the balance implied by the initial balance and the net
// effect of the account's roots. reportingNet sums their reporting currency
// amounts and foreignNet their foreign amounts; the account currency picks
// which one applies.
func (r *Reconstructor) DerivedBalance(account Account, reportingNet, foreignNet decimal.Decimal) decimal.Decimal {
	if PostsReportingAmount(account.Currency, r.reportingCurrency) {
		return r.InitialBalance(account.ID).Add(reportingNet)
	}
	return r.InitialBalance(account.ID).Add(foreignNet)
}
