// File: cmd/registrar/main.go
package main

import (
	"log"

	"user_access_backend/internal/config"
	"user_access_backend/internal/gateway"
	"user_access_backend/internal/identity"
	"user_access_backend/internal/notification"
	"user_access_backend/internal/platform/database"
	"user_access_backend/internal/platform/logger"
	"user_access_backend/internal/registration"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateRegistrar(); err != nil {
		log.Fatalf("FATAL: Invalid registrar configuration: %v", err)
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	provider, err := identity.NewFromConfig(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize identity provider", zap.Error(err))
	}

	notifier, cleanup, err := notification.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize notification backend", zap.Error(err))
	}
	defer cleanup()

	var recorder registration.Recorder = registration.NopLedger{}
	if cfg.LedgerEnabled() {
		db, err := database.NewGORM(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize ledger database", zap.Error(err))
		}
		defer database.CloseGORMDB(db, appLogger)

		// Retention runs in cmd/server; the Lambda only records.
		ledger := registration.NewGORMLedger(db, appLogger)
		if err := ledger.Migrate(); err != nil {
			appLogger.Fatal("Failed to migrate registration ledger", zap.Error(err))
		}
		recorder = ledger
	}

	registrar := registration.NewRegistrar(provider, notifier, recorder, cfg, appLogger)
	handler := registration.NewHandler(registrar, appLogger)
	lambda.Start(gateway.LambdaHandler(handler, appLogger.Named("lambda")))
}
