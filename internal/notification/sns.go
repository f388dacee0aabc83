package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

// SNSAPI is the subset of the SNS client used by SNSNotifier.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
}

// SNSNotifier publishes to Amazon SNS topics.
type SNSNotifier struct {
	api    SNSAPI
	logger *zap.Logger
}

func NewSNSNotifier(api SNSAPI, logger *zap.Logger) *SNSNotifier {
	return &SNSNotifier{api: api, logger: logger.Named("sns")}
}

func (n *SNSNotifier) Publish(ctx context.Context, evt Event) (string, error) {
	message, err := evt.Message()
	if err != nil {
		return "", fmt.Errorf("failed to encode notification: %w", err)
	}

	out, err := n.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(evt.Topic),
		Message:  aws.String(message),
		Subject:  aws.String(evt.Subject),
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish to SNS topic: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	n.logger.Debug("Published SNS message", zap.String("topic", evt.Topic), zap.String("message_id", messageID))
	return messageID, nil
}

func (n *SNSNotifier) Subscribe(ctx context.Context, sub Subscription) (string, error) {
	out, err := n.api.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: aws.String(sub.Topic),
		Protocol: aws.String(sub.Protocol),
		Endpoint: aws.String(sub.Endpoint),
	})
	if err != nil {
		return "", fmt.Errorf("failed to subscribe to SNS topic: %w", err)
	}

	// Email subscriptions stay "pending confirmation" until the recipient clicks the link.
	subscriptionARN := aws.ToString(out.SubscriptionArn)
	n.logger.Debug("Created SNS subscription", zap.String("topic", sub.Topic), zap.String("protocol", sub.Protocol), zap.String("subscription", subscriptionARN))
	return subscriptionARN, nil
}
