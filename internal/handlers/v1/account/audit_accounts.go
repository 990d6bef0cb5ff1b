package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/params"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// AuditRow compares one account's stored balance with its history.
type AuditRow struct {
	Account    Account `json:"account" doc:"Audited account"`
	Derived    float64 `json:"derived_balance" doc:"Initial balance plus the effect of every root transaction"`
	Drift      float64 `json:"drift" doc:"Stored minus derived balance"`
	Consistent bool    `json:"consistent" doc:"Whether the balances agree"`
}

type AuditAccountsOutput struct {
	Body []AuditRow
}

type balanceAuditor interface {
	Audit(ctx context.Context) ([]service.AuditResult, error)
}

// AuditAccountsHandler handles GET /api/accounts/audit.
type AuditAccountsHandler struct {
	AccountService balanceAuditor
}

func NewAuditAccountsHandler(svc balanceAuditor) *AuditAccountsHandler {
	return &AuditAccountsHandler{AccountService: svc}
}

func (h *AuditAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "audit-accounts",
		Method:      http.MethodGet,
		Path:        "/api/accounts/audit",
		Summary:     "Audit account balances",
		Description: "Compares every stored balance with the balance derived from the recorded history.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *AuditAccountsHandler) handle(ctx context.Context, _ *struct{}) (*AuditAccountsOutput, error) {
	results, err := h.AccountService.Audit(ctx)
	if err != nil {
		return nil, apierror.FromError(err)
	}

	drifted := 0
	resp := make([]AuditRow, len(results))
	for i, result := range results {
		if !result.Consistent() {
			drifted++
		}
		resp[i] = AuditRow{
			Account:    fromAccount(result.Account),
			Derived:    params.Number(result.Derived),
			Drift:      params.Number(result.Drift),
			Consistent: result.Consistent(),
		}
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("driftedAccounts", drifted)
	}

	return &AuditAccountsOutput{Body: resp}, nil
}
