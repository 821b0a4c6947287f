package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/auth"
	"github.com/beejsebazaar/advisor/internal/domain/contact"
	"github.com/beejsebazaar/advisor/internal/domain/cropalert"
	"github.com/beejsebazaar/advisor/internal/domain/cropplan"
	"github.com/beejsebazaar/advisor/internal/domain/fieldtips"
	"github.com/beejsebazaar/advisor/internal/domain/harvest"
	"github.com/beejsebazaar/advisor/internal/domain/healthcheck"
	"github.com/beejsebazaar/advisor/internal/domain/practices"
	"github.com/beejsebazaar/advisor/internal/infra/config"
	"github.com/beejsebazaar/advisor/internal/infra/llm/chatgpt"
	"github.com/beejsebazaar/advisor/internal/infra/llm/gemini"
	"github.com/beejsebazaar/advisor/internal/infra/mailrelay"
	"github.com/beejsebazaar/advisor/internal/infra/ratelimit"
	"github.com/beejsebazaar/advisor/internal/infra/weather/openweather"
	httpiface "github.com/beejsebazaar/advisor/internal/interface/http"
	"github.com/beejsebazaar/advisor/pkg/util"
)

func provideGenerator(cfg *config.Config, logger *slog.Logger) advisory.Generator {
	llm := cfg.LLM
	if llm.Provider == "openai" {
		logger.Info("generation provider selected", "provider", "openai", "model", llm.Model)
		return chatgpt.NewGenerator(chatgpt.GeneratorConfig{
			APIKey:          llm.OpenAI.APIKey,
			BaseURL:         llm.OpenAI.BaseURL,
			Model:           llm.Model,
			Temperature:     llm.Temperature,
			MaxOutputTokens: llm.MaxOutputTokens,
			Timeout:         llm.Timeout,
		})
	}
	logger.Info("generation provider selected", "provider", "gemini", "model", llm.Model)
	return gemini.NewGenerator(gemini.Config{
		APIKey:          llm.Gemini.APIKey,
		BaseURL:         llm.Gemini.BaseURL,
		APIVersion:      llm.Gemini.APIVersion,
		Model:           llm.Model,
		Temperature:     llm.Temperature,
		MaxOutputTokens: llm.MaxOutputTokens,
		Timeout:         llm.Timeout,
	})
}

func provideWeatherProvider(cfg *config.Config) advisory.WeatherProvider {
	return openweather.NewClient(openweather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Units:   cfg.Weather.Units,
		Timeout: cfg.Weather.Timeout,
	})
}

func provideCropPlanConfig(cfg *config.Config) cropplan.Config {
	return cropplan.Config{Persona: cfg.Advisory.Persona, Model: cfg.LLM.Model}
}

func providePracticesConfig(cfg *config.Config) practices.Config {
	return practices.Config{Persona: cfg.Advisory.Persona, Model: cfg.LLM.Model}
}

func provideFieldTipsConfig(cfg *config.Config) fieldtips.Config {
	return fieldtips.Config{
		Persona:        cfg.Advisory.Persona,
		Model:          cfg.LLM.Model,
		MaxSuggestions: cfg.Advisory.MaxSuggestions,
	}
}

func provideCropAlertConfig(cfg *config.Config) cropalert.Config {
	return cropalert.Config{
		Persona:      cfg.Advisory.Persona,
		Model:        cfg.LLM.Model,
		ForecastDays: cfg.Advisory.ForecastDays,
	}
}

func provideHealthCheckConfig(cfg *config.Config) healthcheck.Config {
	return healthcheck.Config{
		Persona:       cfg.Advisory.Persona,
		Model:         cfg.LLM.Model,
		VisionModel:   cfg.LLM.VisionModel,
		MaxImageBytes: cfg.Advisory.MaxImageBytes,
	}
}

func provideHarvestConfig(cfg *config.Config) harvest.Config {
	return harvest.Config{ReadinessEntries: cfg.Advisory.ReadinessEntries}
}

func provideContactConfig(cfg *config.Config) contact.Config {
	return contact.Config{ToName: cfg.Relay.ToName}
}

// provideRelay never fails: an unusable relay reports config_missing when
// the form is submitted.
func provideRelay(cfg *config.Config, logger *slog.Logger) contact.Relay {
	relay := cfg.Relay
	switch relay.Provider {
	case "ses":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := mailrelay.NewSESClient(ctx, relay.SES.Region)
		if err != nil {
			logger.Error("failed to load aws config, ses relay disabled", "error", err)
			return mailrelay.NewSES(mailrelay.SESConfig{}, nil)
		}
		return mailrelay.NewSES(mailrelay.SESConfig{Sender: relay.SES.Sender, Recipient: relay.SES.Recipient}, client)
	case "sns":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := mailrelay.NewSNSClient(ctx, relay.SNS.Region)
		if err != nil {
			logger.Error("failed to load aws config, sns relay disabled", "error", err)
			return mailrelay.NewSNS(mailrelay.SNSConfig{}, nil)
		}
		return mailrelay.NewSNS(mailrelay.SNSConfig{TopicARN: relay.SNS.TopicARN}, client)
	default:
		e := relay.EmailJS
		return mailrelay.NewEmailJS(mailrelay.EmailJSConfig{
			BaseURL:    e.BaseURL,
			ServiceID:  e.ServiceID,
			TemplateID: e.TemplateID,
			PublicKey:  e.PublicKey,
			PrivateKey: e.PrivateKey,
		})
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	a := cfg.Auth
	return auth.Config{
		IssuerURL:             a.IssuerURL,
		ClientID:              a.ClientID,
		ClientSecret:          a.ClientSecret,
		RedirectURL:           a.RedirectURL,
		PostLoginRedirectURL:  a.PostLoginRedirectURL,
		PostLogoutRedirectURL: a.PostLogoutRedirectURL,
		SessionSecret:         a.SessionSecret,
		SessionTTL:            a.SessionTTL,
	}
}

func provideHandlerOptions(cfg *config.Config) httpiface.Options {
	return httpiface.Options{
		Capabilities:  cfg.Capabilities(),
		MaxImageBytes: cfg.Advisory.MaxImageBytes,
		StateSecret:   util.FirstNonEmpty(cfg.Auth.StateSecret, cfg.Auth.SessionSecret),
	}
}

// provideLimiter returns a nil limiter when rate limiting is disabled. A
// valkey backend that cannot be reached falls back to the memory limiter.
func provideLimiter(cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, func(), error) {
	rl := cfg.HTTP.RateLimit
	if !rl.Enabled {
		return nil, func() {}, nil
	}
	limits := ratelimit.Config{
		RequestsPerMinute: rl.RequestsPerMinute,
		Burst:             rl.Burst,
		MaxClients:        rl.MaxClients,
	}
	if rl.Backend == "valkey" {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory limiter", "error", err)
			return ratelimit.NewMemory(limits), func() {}, nil
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory limiter", "error", err)
			return ratelimit.NewMemory(limits), func() {}, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory limiter", "error", err)
			client.Close()
			return ratelimit.NewMemory(limits), func() {}, nil
		}
		logger.Info("valkey rate limiter enabled", "addr", cfg.Valkey.Addr)
		return ratelimit.NewValkey(client, "advisor:ratelimit", limits), client.Close, nil
	}
	return ratelimit.NewMemory(limits), func() {}, nil
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}, nil
}
