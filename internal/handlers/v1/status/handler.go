package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/carson-networks/ledger-server/internal/logging"
)

const pingTimeout = 2 * time.Second

// pinger reports whether the database is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Database pinger
}

func NewHandler(db pinger) Handler {
	return Handler{Database: db}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	if h.Database != nil {
		ctx, cancel := context.WithTimeout(req.Context(), pingTimeout)
		defer cancel()

		endTimer := logData.AddTiming("pingMs")
		err := h.Database.Ping(ctx)
		endTimer()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return err
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
