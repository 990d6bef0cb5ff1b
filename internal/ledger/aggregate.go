package ledger

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// KeywordLimit caps the keyword summary.
	KeywordLimit = 15

	// UncategorizedName labels transactions without a category.
	UncategorizedName = "Uncategorized"

	// TopCategoryLimit caps the dashboard category chart; the remainder is
	// folded into OtherName.
	TopCategoryLimit = 8
	OtherName        = "Other"
)

var (
	bracketReplacer = strings.NewReplacer(
		"(", "", ")", "",
		"[", "", "]", "",
		"{", "", "}", "",
		"（", "", "）", "",
		"【", "", "】", "",
		"「", "", "」", "",
		"『", "", "』", "",
	)
	numericNote = regexp.MustCompile(`^[0-9]+([.,][0-9]+)*$`)
)

// Entry is a root transaction as seen by the aggregation engine.
type Entry struct {
	Date         time.Time
	Type         TransactionType
	Amount       decimal.Decimal
	Note         string
	CategoryName string
	CategoryType TransactionType
}

// Totals are period sums by transaction type.
type Totals struct {
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Transfer decimal.Decimal
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// MonthlyTotal is the sum for one calendar month and type.
type MonthlyTotal struct {
	Month string
	Type  TransactionType
	Total decimal.Decimal
}

// CategoryTotal is the sum for one category name and type.
type CategoryTotal struct {
	Name  string
	Type  TransactionType
	Total decimal.Decimal
}

// KeywordTotal is the sum for one distinct cleaned note.
type KeywordTotal struct {
	Name  string
	Total decimal.Decimal
}

// Stats is the dashboard aggregation result.
type Stats struct {
	Totals     Totals
	Monthly    []MonthlyTotal
	Categories []CategoryTotal
	Keywords   []KeywordTotal

	// TopCategories is Categories capped at TopCategoryLimit plus one
	// OtherName row for the rest.
	TopCategories []CategoryTotal
}

// Aggregator computes dashboard statistics from root transactions.
type Aggregator struct {
	excluded map[string]struct{}
}

func NewAggregator(excludedCategoryNames []string) *Aggregator {
	excluded := make(map[string]struct{}, len(excludedCategoryNames))
	for _, name := range excludedCategoryNames {
		name = strings.TrimSpace(name)
		if name != "" {
			excluded[name] = struct{}{}
		}
	}
	return &Aggregator{excluded: excluded}
}

// IsTransfer reports whether an entry moves money between the user's own
// accounts and must stay out of income and expense figures.
func (a *Aggregator) IsTransfer(e Entry) bool {
	if e.CategoryType == TypeTransfer {
		return true
	}
	_, ok := a.excluded[e.CategoryName]
	return ok
}

// Aggregate computes all statistics in one pass over entries.
func (a *Aggregator) Aggregate(entries []Entry) *Stats {
	categories := a.Categories(entries)
	return &Stats{
		Totals:        a.Totals(entries),
		Monthly:       a.Monthly(entries),
		Categories:    categories,
		Keywords:      a.Keywords(entries),
		TopCategories: TopCategories(categories, TopCategoryLimit, OtherName),
	}
}

func (a *Aggregator) Totals(entries []Entry) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero, Transfer: decimal.Zero}
	for _, e := range entries {
		if a.IsTransfer(e) {
			continue
		}
		switch e.Type {
		case TypeIncome:
			totals.Income = totals.Income.Add(e.Amount)
		case TypeExpense:
			totals.Expense = totals.Expense.Add(e.Amount)
		case TypeTransfer:
			totals.Transfer = totals.Transfer.Add(e.Amount)
		}
	}
	return totals
}

func (a *Aggregator) Monthly(entries []Entry) []MonthlyTotal {
	type key struct {
		month string
		t     TransactionType
	}
	sums := make(map[key]decimal.Decimal)
	for _, e := range entries {
		if a.IsTransfer(e) {
			continue
		}
		k := key{month: e.Date.Format("2006-01"), t: e.Type}
		sums[k] = sums[k].Add(e.Amount)
	}

	result := make([]MonthlyTotal, 0, len(sums))
	for k, total := range sums {
		result = append(result, MonthlyTotal{Month: k.month, Type: k.t, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Month != result[j].Month {
			return result[i].Month < result[j].Month
		}
		return result[i].Type < result[j].Type
	})
	return result
}

// Categories sums every entry by category, transfers included.
func (a *Aggregator) Categories(entries []Entry) []CategoryTotal {
	type key struct {
		name string
		t    TransactionType
	}
	sums := make(map[key]decimal.Decimal)
	for _, e := range entries {
		name := e.CategoryName
		if name == "" {
			name = UncategorizedName
		}
		k := key{name: name, t: e.Type}
		sums[k] = sums[k].Add(e.Amount)
	}

	result := make([]CategoryTotal, 0, len(sums))
	for k, total := range sums {
		result = append(result, CategoryTotal{Name: k.name, Type: k.t, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Total.Cmp(result[j].Total); c != 0 {
			return c > 0
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Type < result[j].Type
	})
	return result
}

// Keywords sums notes of non-transfer entries. Both transfer categories and
// TRANSFER typed entries are left out.
func (a *Aggregator) Keywords(entries []Entry) []KeywordTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if a.IsTransfer(e) || e.Type == TypeTransfer {
			continue
		}
		keyword, ok := CleanKeyword(e.Note)
		if !ok {
			continue
		}
		sums[keyword] = sums[keyword].Add(e.Amount)
	}

	result := make([]KeywordTotal, 0, len(sums))
	for name, total := range sums {
		result = append(result, KeywordTotal{Name: name, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Total.Cmp(result[j].Total); c != 0 {
			return c > 0
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > KeywordLimit {
		result = result[:KeywordLimit]
	}
	return result
}

// CleanKeyword strips bracket characters and surrounding space from a note.
// Empty and purely numeric notes are rejected.
func CleanKeyword(note string) (string, bool) {
	cleaned := strings.TrimSpace(bracketReplacer.Replace(note))
	if cleaned == "" || numericNote.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// TopCategories keeps the n largest categories and folds the remainder into
// a single row named other. categories must be ordered by total descending.
func TopCategories(categories []CategoryTotal, n int, other string) []CategoryTotal {
	if n <= 0 || len(categories) <= n {
		return append([]CategoryTotal(nil), categories...)
	}
	result := make([]CategoryTotal, n, n+1)
	copy(result, categories[:n])
	rest := decimal.Zero
	for _, c := range categories[n:] {
		rest = rest.Add(c.Total)
	}
	return append(result, CategoryTotal{Name: other, Total: rest})
}
