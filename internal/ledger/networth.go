package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountValue is one account's contribution to the net worth estimate.
type AccountValue struct {
	AccountID int64
	Name      string
	Currency  string
	Balance   decimal.Decimal
	Rate      decimal.Decimal
	Value     decimal.Decimal
}

// NetWorth is an estimate in the reporting currency using static rates.
type NetWorth struct {
	Currency string
	Total    decimal.Decimal
	Accounts []AccountValue

	// Unpriced lists selected accounts whose currency has no rate.
	Unpriced []Account
}

// Estimator converts account balances with a fixed rate table.
type Estimator struct {
	reportingCurrency string
	rates             map[string]decimal.Decimal
}

func NewEstimator(reportingCurrency string, rates map[string]decimal.Decimal) *Estimator {
	reportingCurrency = strings.ToUpper(reportingCurrency)
	table := make(map[string]decimal.Decimal, len(rates)+1)
	for currency, rate := range rates {
		table[strings.ToUpper(currency)] = rate
	}
	table[reportingCurrency] = decimal.NewFromInt(1)
	return &Estimator{reportingCurrency: reportingCurrency, rates: table}
}

func (e *Estimator) ReportingCurrency() string {
	return e.reportingCurrency
}

// Rate returns the rate to the reporting currency.
func (e *Estimator) Rate(currency string) (decimal.Decimal, bool) {
	rate, ok := e.rates[strings.ToUpper(strings.TrimSpace(currency))]
	return rate, ok
}

// Estimate sums balance times rate over the selected accounts. An empty
// selection selects every account.
func (e *Estimator) Estimate(accounts []Account, selection []int64) *NetWorth {
	selected := make(map[int64]struct{}, len(selection))
	for _, id := range selection {
		selected[id] = struct{}{}
	}

	result := &NetWorth{
		Currency: e.reportingCurrency,
		Total:    decimal.Zero,
		Accounts: []AccountValue{},
		Unpriced: []Account{},
	}
	for _, account := range accounts {
		if len(selected) > 0 {
			if _, ok := selected[account.ID]; !ok {
				continue
			}
		}
		rate, ok := e.Rate(account.Currency)
		if !ok {
			result.Unpriced = append(result.Unpriced, account)
			continue
		}
		value := account.Balance.Mul(rate).Round(2)
		result.Accounts = append(result.Accounts, AccountValue{
			AccountID: account.ID,
			Name:      account.Name,
			Currency:  account.Currency,
			Balance:   account.Balance,
			Rate:      rate,
			Value:     value,
		})
		result.Total = result.Total.Add(value)
	}
	return result
}
