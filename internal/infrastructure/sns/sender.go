package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/skillswap-api/internal/config"
	"github.com/skillswap-api/internal/domain"
)

// Publisher pushes match notification events to the fan-out topic. Downstream
// consumers (mobile push, in-app feed) subscribe to the topic and filter on
// the recipient attribute.
type Publisher interface {
	PublishMatch(ctx context.Context, event domain.MatchNotificationEvent) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (Publisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishMatch(ctx context.Context, event domain.MatchNotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}
	message := string(body)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  &message,
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"recipient": {
				DataType:    strPtr("String"),
				StringValue: &event.Recipient,
			},
		},
	})
	return err
}

func strPtr(s string) *string { return &s }
