package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/account"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/category"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/stats"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// registrar is implemented by every huma handler.
type registrar interface {
	Register(api huma.API)
}

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Storage  *storage.Storage
	Service  *service.Service
	Operator *operator.OperatorDelegator

	server *http.Server
}

// NewRest builds the HTTP server up front so Serve and Shutdown may be called
// from different goroutines.
func NewRest(logger *logrus.Logger, port string, store *storage.Storage, svc *service.Service, op *operator.OperatorDelegator) *Rest {
	r := &Rest{
		Logger:   logger,
		Port:     port,
		Storage:  store,
		Service:  svc,
		Operator: op,
	}
	r.server = &http.Server{
		Addr:              ":" + port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}
	return r
}

// Router builds the HTTP routes: the plain status endpoint and the huma API.
func (r *Rest) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(logging.Middleware(r.Logger))

	statusHandler := status.NewHandler(r.Storage)
	router.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler)).Name("status")

	api := humamux.New(router, huma.DefaultConfig("Ledger Server", "1.0.0"))

	handlers := []registrar{
		account.NewListAccountsHandler(r.Service.Account),
		account.NewAuditAccountsHandler(r.Service.Account),
		account.NewAccountLedgerHandler(r.Service.Transaction),
		category.NewListCategoriesHandler(r.Service.Category),
		category.NewCreateCategoryHandler(r.Operator),
		category.NewDeleteCategoryHandler(r.Operator),
		transaction.NewListTransactionsHandler(r.Service.Transaction),
		transaction.NewCreateTransactionHandler(r.Operator),
		transaction.NewUpdateTransactionHandler(r.Operator),
		transaction.NewDeleteTransactionHandler(r.Operator),
		stats.NewStatsHandler(r.Service.Stats),
		stats.NewNetWorthHandler(r.Service.Stats),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return router
}

// Serve blocks until the server stops. It returns at once when Shutdown has
// already been called.
func (r *Rest) Serve() {
	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := r.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (r *Rest) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
