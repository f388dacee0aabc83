// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"user_access_backend/internal/app"
	"user_access_backend/internal/auth"
	"user_access_backend/internal/config"
	"user_access_backend/internal/notification"
	"user_access_backend/internal/platform/logger"
	"user_access_backend/internal/registration"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		provideDB,

		// Collaborators
		provideIdentityProvider,
		notification.New,

		// Registration ledger
		provideGORMLedger,
		provideRecorder,
		provideRetentionJob,

		// Handlers
		auth.NewAuthenticator,
		auth.NewHandler,
		registration.NewRegistrar,
		registration.NewHandler,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
