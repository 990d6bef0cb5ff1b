package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// AuditResult compares an account's stored balance with the balance derived
// from its initial balance and recorded roots.
type AuditResult struct {
	Account ledger.Account
	Derived decimal.Decimal
	Drift   decimal.Decimal
}

// Consistent reports whether the stored and derived balances agree.
func (r AuditResult) Consistent() bool {
	return r.Drift.IsZero()
}
