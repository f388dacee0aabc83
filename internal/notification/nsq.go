package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"
	"go.uber.org/zap"
)

// SubscriptionTopicSuffix names the NSQ topic that carries subscription requests for a topic.
// NSQ has no managed subscriptions; a mailer consuming "<topic>.subscriptions" registers the endpoints.
const SubscriptionTopicSuffix = ".subscriptions"

type nsqProducer interface {
	Publish(topic string, body []byte) error
	Stop()
}

// envelope is the NSQ message body.
type envelope struct {
	ID      string      `json:"id"`
	Subject string      `json:"subject,omitempty"`
	Message interface{} `json:"message"`
}

// NSQNotifier publishes to nsqd topics.
type NSQNotifier struct {
	producer nsqProducer
	logger   *zap.Logger
}

// DialNSQ connects to the nsqd at address and pings it.
func DialNSQ(address string, logger *zap.Logger) (*NSQNotifier, error) {
	producer, err := nsq.NewProducer(address, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}
	producer.SetLogger(zap.NewStdLog(logger.Named("nsq")), nsq.LogLevelWarning)

	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}
	return newNSQNotifier(producer, logger), nil
}

func newNSQNotifier(producer nsqProducer, logger *zap.Logger) *NSQNotifier {
	return &NSQNotifier{producer: producer, logger: logger.Named("nsq")}
}

func (n *NSQNotifier) Publish(ctx context.Context, evt Event) (string, error) {
	id := uuid.NewString()
	if err := n.publish(ctx, evt.Topic, envelope{ID: id, Subject: evt.Subject, Message: evt.Payload}); err != nil {
		return "", fmt.Errorf("failed to publish to NSQ topic: %w", err)
	}
	n.logger.Debug("Published NSQ message", zap.String("topic", evt.Topic), zap.String("message_id", id))
	return id, nil
}

func (n *NSQNotifier) Subscribe(ctx context.Context, sub Subscription) (string, error) {
	id := uuid.NewString()
	topic := sub.Topic + SubscriptionTopicSuffix
	if err := n.publish(ctx, topic, envelope{ID: id, Message: sub}); err != nil {
		return "", fmt.Errorf("failed to request NSQ subscription: %w", err)
	}
	n.logger.Debug("Requested NSQ subscription", zap.String("topic", topic), zap.String("protocol", sub.Protocol))
	return id, nil
}

func (n *NSQNotifier) publish(ctx context.Context, topic string, body envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return n.producer.Publish(topic, raw)
}

// Stop gracefully stops the producer
func (n *NSQNotifier) Stop() {
	n.producer.Stop()
}
