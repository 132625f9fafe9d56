package delivery

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSSender delivers SMS codes via AWS SNS.
type SNSSender struct {
	client *sns.Client
}

// NewSNSSender loads the default AWS config for the given region and
// returns an SMS sender.
func NewSNSSender(ctx context.Context, region string) (*SNSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSSender{client: sns.NewFromConfig(awsCfg)}, nil
}

// NewSNSSenderFromClient wraps an already-configured SNS client.
func NewSNSSenderFromClient(client *sns.Client) *SNSSender {
	return &SNSSender{client: client}
}

func (s *SNSSender) SendSMS(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}
