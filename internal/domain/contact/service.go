package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	gonanoid "github.com/matoous/go-nanoid"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

const referenceAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Request is the contact form.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Response confirms a delivered message.
type Response struct {
	Reference string `json:"reference"`
	Relay     string `json:"relay"`
	Message   string `json:"message"`
}

// Message is what a relay delivers to the team.
type Message struct {
	ToName    string
	FromName  string
	ReplyTo   string
	Body      string
	Reference string
}

// Receipt is the relay's answer. Status follows HTTP semantics; relays
// without one report 200 on acceptance.
type Receipt struct {
	Status     int
	ProviderID string
}

// Relay hands a message to an outside delivery service.
type Relay interface {
	Name() string
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Config names the recipient shown in the relayed message.
type Config struct {
	ToName string
}

// Service relays contact form submissions.
type Service interface {
	Send(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg    Config
	relay  Relay
	logger *slog.Logger
	newID  func() (string, error)
}

// NewService wires the contact form.
func NewService(cfg Config, relay Relay, logger *slog.Logger) Service {
	if cfg.ToName == "" {
		cfg.ToName = "BeejSeBazaar Team"
	}
	return &service{
		cfg:    cfg,
		relay:  relay,
		logger: logger.With("component", "contact.service"),
		newID: func() (string, error) {
			return gonanoid.Generate(referenceAlphabet, 12)
		},
	}
}

func (s *service) Send(ctx context.Context, req Request) (Response, error) {
	if err := advisory.Required("name", req.Name, "email", req.Email, "message", req.Message); err != nil {
		return Response{}, err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "email is not a valid address", err)
	}

	reference, err := s.newID()
	if err != nil {
		return Response{}, fmt.Errorf("generate reference: %w", err)
	}
	msg := Message{
		ToName:    s.cfg.ToName,
		FromName:  strings.TrimSpace(req.Name),
		ReplyTo:   addr.Address,
		Body:      strings.TrimSpace(req.Message),
		Reference: reference,
	}

	relay := s.relay.Name()
	receipt, err := s.relay.Send(ctx, msg)
	if err != nil {
		metrics.RelayDeliveries.WithLabelValues(relay, metrics.OutcomeError).Inc()
		if errors.Is(err, advisory.ErrNotConfigured) {
			return Response{}, apperrors.Wrap(apperrors.CodeConfigMissing, "contact form is not configured: relay credentials are missing", err)
		}
		s.logger.Error("contact relay failed", "relay", relay, "reference", reference, "error", err)
		return Response{}, apperrors.Wrap(apperrors.CodeRelayError, "Failed to send message. Please try again.", err)
	}
	if receipt.Status != http.StatusOK {
		metrics.RelayDeliveries.WithLabelValues(relay, metrics.OutcomeError).Inc()
		s.logger.Error("contact relay rejected message", "relay", relay, "reference", reference, "status", receipt.Status)
		return Response{}, apperrors.Wrap(apperrors.CodeRelayError, fmt.Sprintf("%s responded with status: %d", relay, receipt.Status), nil)
	}

	metrics.RelayDeliveries.WithLabelValues(relay, metrics.OutcomeOK).Inc()
	s.logger.Info("contact message relayed", "relay", relay, "reference", reference, "provider_id", receipt.ProviderID)
	return Response{Reference: reference, Relay: relay, Message: "Message sent successfully!"}, nil
}
