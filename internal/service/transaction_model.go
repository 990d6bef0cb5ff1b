package service

const (
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 500
)

// TransactionQuery selects root transactions for listing. A nil AccountID
// lists every account.
type TransactionQuery struct {
	AccountID *int64
	Limit     int
}

// limit returns the page size clamped to [1, MaxTransactionLimit].
func (q TransactionQuery) limit() int {
	switch {
	case q.Limit <= 0:
		return DefaultTransactionLimit
	case q.Limit > MaxTransactionLimit:
		return MaxTransactionLimit
	}
	return q.Limit
}
