// File: cmd/authenticator/main.go
package main

import (
	"log"

	"user_access_backend/internal/auth"
	"user_access_backend/internal/config"
	"user_access_backend/internal/gateway"
	"user_access_backend/internal/identity"
	"user_access_backend/internal/platform/logger"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
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

	handler := auth.NewHandler(auth.NewAuthenticator(provider, cfg, appLogger), appLogger)
	lambda.Start(gateway.LambdaHandler(handler, appLogger.Named("lambda")))
}
