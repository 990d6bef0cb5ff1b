package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/audit"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("ledger-server starting")

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = dbStorage.Ping(pingCtx)
	cancelPing()
	if err != nil {
		logger.WithError(err).Warn("storage.Ping")
	}

	op := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	op.Start()
	defer op.Stop()

	svc := service.NewService(dbStorage, envConfig)

	auditor := audit.NewAuditor(svc.Account, logger)
	if err := auditor.Start(envConfig.AuditSchedule); err != nil {
		logger.WithError(err).Fatal("audit.Start")
		return
	}
	defer auditor.Stop()

	httpRest := api.NewRest(logger, envConfig.Port, dbStorage, svc, op)

	done := make(chan struct{})
	go func() {
		httpRest.Serve()
		close(done)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logger.WithField("signal", sig.String()).Info("ledger-server stopping")
	case <-done:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpRest.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("HttpServer.Shutdown")
	}
	<-done
}
