package emailclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
)

// SESClient sends email through AWS SES using the SDK v2.
type SESClient struct {
	client *sesv2.Client
	sender domain.SubscriberEmail
}

// NewSESClient builds an SES client from cfg. Static credentials are used
// when an access key is configured; otherwise the default AWS chain applies.
// SDK retries are disabled so each Send is a single request. The HTTP client
// stays buildable so AWS_CA_BUNDLE can still install its root CAs.
func NewSESClient(ctx context.Context, cfg config.EmailClientSettings, sender domain.SubscriberEmail, optFns ...func(*sesv2.Options)) (*SESClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SES.Region),
		awsconfig.WithRetryMaxAttempts(1),
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(cfg.Timeout())),
	}
	if cfg.SES.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SES.AccessKey, cfg.SES.SecretKey.Expose(), ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESClient{
		client: sesv2.NewFromConfig(awsCfg, optFns...),
		sender: sender,
	}, nil
}

// Send delivers a single email through AWS SES.
func (s *SESClient) Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender.String()),
		Destination:      &types.Destination{ToAddresses: []string{to.String()}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		derr := &DeliveryError{Provider: "ses", Err: err}
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			derr.StatusCode = respErr.HTTPStatusCode()
		}
		return derr
	}
	return nil
}
