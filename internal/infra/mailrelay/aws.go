package mailrelay

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/contact"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// NewSESClient loads the default AWS credential chain for region.
func NewSESClient(ctx context.Context, region string) (*ses.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return ses.NewFromConfig(cfg), nil
}

// NewSNSClient loads the default AWS credential chain for region.
func NewSNSClient(ctx context.Context, region string) (*sns.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return sns.NewFromConfig(cfg), nil
}

// SESConfig addresses the team mailbox.
type SESConfig struct {
	Sender    string
	Recipient string
}

// SES delivers the message as a plain text email.
type SES struct {
	cfg    SESConfig
	client SESAPI
}

// NewSES constructs the relay. A nil client reports config_missing on send.
func NewSES(cfg SESConfig, client SESAPI) *SES {
	return &SES{cfg: cfg, client: client}
}

func (s *SES) Name() string { return "ses" }

func (s *SES) Send(ctx context.Context, msg contact.Message) (contact.Receipt, error) {
	if s.client == nil || s.cfg.Sender == "" || s.cfg.Recipient == "" {
		return contact.Receipt{}, fmt.Errorf("ses: %w", advisory.ErrNotConfigured)
	}
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.cfg.Sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{s.cfg.Recipient},
		},
		ReplyToAddresses: []string{msg.ReplyTo},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject(msg))},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(plainBody(msg))},
			},
		},
	})
	if err != nil {
		return contact.Receipt{}, fmt.Errorf("ses send email: %w", err)
	}
	return contact.Receipt{Status: http.StatusOK, ProviderID: aws.ToString(out.MessageId)}, nil
}

// SNSConfig names the topic the team subscribes to.
type SNSConfig struct {
	TopicARN string
}

// SNS publishes the message to a topic.
type SNS struct {
	cfg    SNSConfig
	client SNSAPI
}

// NewSNS constructs the relay. A nil client reports config_missing on send.
func NewSNS(cfg SNSConfig, client SNSAPI) *SNS {
	return &SNS{cfg: cfg, client: client}
}

func (s *SNS) Name() string { return "sns" }

func (s *SNS) Send(ctx context.Context, msg contact.Message) (contact.Receipt, error) {
	if s.client == nil || s.cfg.TopicARN == "" {
		return contact.Receipt{}, fmt.Errorf("sns: %w", advisory.ErrNotConfigured)
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.cfg.TopicARN),
		Subject:  aws.String(subject(msg)),
		Message:  aws.String(plainBody(msg)),
	})
	if err != nil {
		return contact.Receipt{}, fmt.Errorf("sns publish: %w", err)
	}
	return contact.Receipt{Status: http.StatusOK, ProviderID: aws.ToString(out.MessageId)}, nil
}

func subject(msg contact.Message) string {
	return fmt.Sprintf("Contact form %s from %s", msg.Reference, msg.FromName)
}

func plainBody(msg contact.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", msg.ToName)
	fmt.Fprintf(&b, "From: %s <%s>\n", msg.FromName, msg.ReplyTo)
	fmt.Fprintf(&b, "Reference: %s\n\n", msg.Reference)
	b.WriteString(msg.Body)
	return b.String()
}

var (
	_ contact.Relay = (*SES)(nil)
	_ contact.Relay = (*SNS)(nil)
)
