package notification

import (
	"context"
	"fmt"

	"user_access_backend/internal/config"
	"user_access_backend/internal/platform/awsclient"

	"go.uber.org/zap"
)

// Notifier publishes account events and manages topic subscriptions.
type Notifier interface {
	// Publish sends evt to evt.Topic and returns the message id assigned by the service.
	Publish(ctx context.Context, evt Event) (string, error)

	// Subscribe registers an endpoint on a topic and returns the subscription id.
	Subscribe(ctx context.Context, sub Subscription) (string, error)
}

// New builds the Notifier selected by NOTIFICATION_BACKEND. It returns nil
// when notifications are disabled; the returned cleanup releases connections.
func New(cfg *config.Config, logger *zap.Logger) (Notifier, func(), error) {
	logger = logger.Named("notification")

	if !cfg.NotificationsEnabled() {
		logger.Info("Notification backend disabled, registrations will not be announced.")
		return nil, func() {}, nil
	}

	switch cfg.NotificationBackend {
	case config.NotificationBackendSNS:
		awsCfg, err := awsclient.NewConfig(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewSNSNotifier(awsclient.NewSNSClient(awsCfg, cfg), logger), func() {}, nil
	case config.NotificationBackendNSQ:
		n, err := DialNSQ(cfg.NSQDAddress, logger)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Stop, nil
	default:
		return nil, nil, fmt.Errorf("unknown notification backend %q", cfg.NotificationBackend)
	}
}
