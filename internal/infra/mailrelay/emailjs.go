package mailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/contact"
)

const defaultEmailJSBaseURL = "https://api.emailjs.com/api/v1.0"

// EmailJSConfig identifies the hosted template used for delivery.
type EmailJSConfig struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

// EmailJS relays messages through the EmailJS REST API.
type EmailJS struct {
	cfg        EmailJSConfig
	httpClient *http.Client
}

// NewEmailJS constructs the relay.
func NewEmailJS(cfg EmailJSConfig) *EmailJS {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultEmailJSBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &EmailJS{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (e *EmailJS) Name() string { return "emailjs" }

type emailJSPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts the template parameters. Non 2xx answers are reported through
// the receipt status rather than as an error.
func (e *EmailJS) Send(ctx context.Context, msg contact.Message) (contact.Receipt, error) {
	if e.cfg.ServiceID == "" || e.cfg.TemplateID == "" || e.cfg.PublicKey == "" {
		return contact.Receipt{}, fmt.Errorf("emailjs: %w", advisory.ErrNotConfigured)
	}
	payload, err := json.Marshal(emailJSPayload{
		ServiceID:   e.cfg.ServiceID,
		TemplateID:  e.cfg.TemplateID,
		UserID:      e.cfg.PublicKey,
		AccessToken: e.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"to_name":   msg.ToName,
			"from_name": msg.FromName,
			"message":   msg.Body,
			"reply_to":  msg.ReplyTo,
			"reference": msg.Reference,
		},
	})
	if err != nil {
		return contact.Receipt{}, fmt.Errorf("encode emailjs request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/email/send", bytes.NewReader(payload))
	if err != nil {
		return contact.Receipt{}, fmt.Errorf("build emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return contact.Receipt{}, fmt.Errorf("emailjs request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return contact.Receipt{Status: resp.StatusCode, ProviderID: strings.TrimSpace(string(body))}, nil
}

var _ contact.Relay = (*EmailJS)(nil)
