package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raffle/internal/auth"
	"raffle/internal/config"
	"raffle/internal/events"
	"raffle/internal/handlers"
	"raffle/internal/logger"
	"raffle/internal/payment"
	"raffle/internal/raffle"
	"raffle/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configuration := config.Load()

	logger.Initialize(logger.Configuration{
		LogFile:   configuration.LogFile,
		ErrorFile: configuration.ErrorFile,
		Level:     configuration.LogLevel,
		Console:   configuration.LogConsole,
	})

	var store raffle.Storage
	if configuration.Ephemeral {
		store = storage.NewMemoryStorage(payment.NewMemoryBank())
	} else {
		// One sqlite handle backs both the raffle records and the balances,
		// so a transaction covers record writes and transfers together.
		store = storage.NewSqliteStorage(configuration.DatabasePath)
	}

	service := raffle.NewService(
		store,
		auth.NewStaticAuthenticator(),
		events.NewZapEmitter(),
		configuration.CustodyAccount,
	)

	router := gin.Default()
	handlers.NewHTTPHandler(service).RegisterRoutes(router)

	server := &http.Server{
		Addr:    configuration.ListenAddress,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("address", configuration.ListenAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-waitForInterrupt()
	logger.Info("interrupt received, shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}

	logger.Info("shutting down... done")
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
