// File: cmd/server/providers.go
package main

import (
	"user_access_backend/internal/config"
	"user_access_backend/internal/identity"
	"user_access_backend/internal/jobs"
	"user_access_backend/internal/platform/database"
	"user_access_backend/internal/registration"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideIdentityProvider builds the Cognito provider. The server exposes registration, so the user pool id is required.
func provideIdentityProvider(cfg *config.Config, logger *zap.Logger) (identity.Provider, error) {
	if err := cfg.ValidateRegistrar(); err != nil {
		return nil, err
	}
	return identity.NewFromConfig(cfg, logger)
}

// provideDB opens the ledger database, or returns nil when DB_DRIVER is unset.
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	if !cfg.LedgerEnabled() {
		logger.Info("DB_DRIVER not set, registration ledger disabled.")
		return nil, func() {}, nil
	}
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { database.CloseGORMDB(db, logger) }, nil
}

func provideGORMLedger(db *gorm.DB, logger *zap.Logger) (*registration.GORMLedger, error) {
	if db == nil {
		return nil, nil
	}
	ledger := registration.NewGORMLedger(db, logger)
	if err := ledger.Migrate(); err != nil {
		return nil, err
	}
	return ledger, nil
}

func provideRecorder(ledger *registration.GORMLedger) registration.Recorder {
	if ledger == nil {
		return registration.NopLedger{}
	}
	return ledger
}

func provideRetentionJob(ledger *registration.GORMLedger, logger *zap.Logger, cfg *config.Config) *jobs.LedgerRetentionJob {
	if ledger == nil {
		return nil
	}
	return jobs.NewLedgerRetentionJob(ledger, logger, cfg)
}
