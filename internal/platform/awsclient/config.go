// File: internal/platform/awsclient/config.go
package awsclient

import (
	"context"
	"fmt"

	"user_access_backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// NewConfig loads the shared AWS configuration (credentials chain + region).
func NewConfig(cfg *config.Config, logger *zap.Logger) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("Failed to load AWS configuration", zap.Error(err), zap.String("region", cfg.AWSRegion))
		return aws.Config{}, fmt.Errorf("error loading AWS configuration: %w", err)
	}
	logger.Info("AWS configuration loaded", zap.String("region", awsCfg.Region))
	return awsCfg, nil
}

// NewCognitoClient creates the Cognito user pool client.
// AWS_ENDPOINT_URL points it at a local emulator when set.
func NewCognitoClient(awsCfg aws.Config, cfg *config.Config) *cognitoidentityprovider.Client {
	return cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
}

// NewSNSClient creates the SNS client.
func NewSNSClient(awsCfg aws.Config, cfg *config.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
}
