package stats

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/ledger"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

type Totals struct {
	Income   float64 `json:"income" doc:"Income excluding transfers"`
	Expense  float64 `json:"expense" doc:"Expense excluding transfers"`
	Transfer float64 `json:"transfer" doc:"TRANSFER typed amounts outside transfer categories"`
	Net      float64 `json:"net" doc:"Income minus expense"`
}

type MonthlyTotal struct {
	Month string  `json:"month" doc:"YYYY-MM"`
	Type  string  `json:"type" doc:"Transaction type"`
	Total float64 `json:"total" doc:"Sum for the month and type"`
}

type CategoryTotal struct {
	Name  string  `json:"name" doc:"Category name"`
	Type  string  `json:"type" doc:"Transaction type"`
	Total float64 `json:"total" doc:"Sum for the category"`
}

type KeywordTotal struct {
	Name  string  `json:"name" doc:"Cleaned note text"`
	Total float64 `json:"total" doc:"Sum of transactions with this note"`
}

// StatsBody is the dashboard statistics response.
type StatsBody struct {
	Totals     Totals          `json:"totals"`
	Monthly    []MonthlyTotal  `json:"monthly"`
	Categories []CategoryTotal `json:"categories"`
	Keywords   []KeywordTotal  `json:"keywords"`

	TopCategories []CategoryTotal `json:"top_categories" doc:"Largest categories with the remainder summed under Other"`
}

type StatsInput struct {
	Start      string `query:"start" doc:"First day, YYYY-MM-DD, open when omitted"`
	End        string `query:"end" doc:"Last day, YYYY-MM-DD, open when omitted"`
	AccountIDs string `query:"account_ids" doc:"Comma separated account ids, all accounts when omitted"`
}

type StatsOutput struct {
	Body StatsBody
}

type statsReader interface {
	Stats(ctx context.Context, query service.StatsQuery) (*ledger.Stats, error)
}

// StatsHandler handles GET /api/stats.
type StatsHandler struct {
	StatsService statsReader
}

func NewStatsHandler(svc statsReader) *StatsHandler {
	return &StatsHandler{StatsService: svc}
}

func (h *StatsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Dashboard statistics",
		Description: "Returns totals, monthly trends, category breakdown and note keywords for a date range.",
		Tags:        []string{"Stats"},
	}, h.handle)
}

func parseStatsInput(input *StatsInput) (service.StatsQuery, error) {
	start, err := params.OptionalDate("start", input.Start)
	if err != nil {
		return service.StatsQuery{}, err
	}
	end, err := params.OptionalDate("end", input.End)
	if err != nil {
		return service.StatsQuery{}, err
	}
	accountIDs, err := params.IDList("account_ids", input.AccountIDs)
	if err != nil {
		return service.StatsQuery{}, err
	}
	return service.StatsQuery{Start: start, End: end, AccountIDs: accountIDs}, nil
}

func (h *StatsHandler) handle(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	logData := logging.GetLogData(ctx)

	query, err := parseStatsInput(input)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("statsMs")
	}
	stats, err := h.StatsService.Stats(ctx, query)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromError(err)
	}

	body := StatsBody{
		Totals: Totals{
			Income:   params.Number(stats.Totals.Income),
			Expense:  params.Number(stats.Totals.Expense),
			Transfer: params.Number(stats.Totals.Transfer),
			Net:      params.Number(stats.Totals.Net()),
		},
		Monthly:    make([]MonthlyTotal, len(stats.Monthly)),
		Categories: make([]CategoryTotal, len(stats.Categories)),
		Keywords:   make([]KeywordTotal, len(stats.Keywords)),

		TopCategories: make([]CategoryTotal, len(stats.TopCategories)),
	}
	for i, m := range stats.Monthly {
		body.Monthly[i] = MonthlyTotal{Month: m.Month, Type: string(m.Type), Total: params.Number(m.Total)}
	}
	for i, c := range stats.Categories {
		body.Categories[i] = CategoryTotal{Name: c.Name, Type: string(c.Type), Total: params.Number(c.Total)}
	}
	for i, c := range stats.TopCategories {
		body.TopCategories[i] = CategoryTotal{Name: c.Name, Type: string(c.Type), Total: params.Number(c.Total)}
	}
	for i, k := range stats.Keywords {
		body.Keywords[i] = KeywordTotal{Name: k.Name, Total: params.Number(k.Total)}
	}

	return &StatsOutput{Body: body}, nil
}
