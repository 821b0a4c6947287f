package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Weather  WeatherConfig  `yaml:"weather"`
	Advisory AdvisoryConfig `yaml:"advisory"`
	Relay    RelayConfig    `yaml:"relay"`
	Auth     AuthConfig     `yaml:"auth"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	InFlightGuard  bool            `yaml:"inFlightGuard"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Backend           string `yaml:"backend"`
	RequestsPerMinute int    `yaml:"requestsPerMinute"`
	Burst             int    `yaml:"burst"`
	MaxClients        int    `yaml:"maxClients"`
}

// LLMConfig selects and tunes the generation provider.
type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	VisionModel     string        `yaml:"visionModel"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int32         `yaml:"maxOutputTokens"`
	Timeout         time.Duration `yaml:"timeout"`
	Gemini          GeminiConfig  `yaml:"gemini"`
	OpenAI          OpenAIConfig  `yaml:"openai"`
}

// GeminiConfig holds Gemini API credentials.
type GeminiConfig struct {
	APIKey     string `yaml:"apiKey"`
	BaseURL    string `yaml:"baseUrl"`
	APIVersion string `yaml:"apiVersion"`
}

// OpenAIConfig holds credentials for an OpenAI compatible chat API.
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// WeatherConfig points at the OpenWeather API.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Units   string        `yaml:"units"`
	Timeout time.Duration `yaml:"timeout"`
}

// AdvisoryConfig tunes the advisory features.
type AdvisoryConfig struct {
	Persona          string `yaml:"persona"`
	MaxSuggestions   int    `yaml:"maxSuggestions"`
	ForecastDays     int    `yaml:"forecastDays"`
	MaxImageBytes    int64  `yaml:"maxImageBytes"`
	ReadinessEntries int    `yaml:"readinessEntries"`
}

// RelayConfig selects the contact form relay.
type RelayConfig struct {
	Provider string        `yaml:"provider"`
	ToName   string        `yaml:"toName"`
	EmailJS  EmailJSConfig `yaml:"emailjs"`
	SES      SESConfig     `yaml:"ses"`
	SNS      SNSConfig     `yaml:"sns"`
}

// EmailJSConfig holds the hosted email relay identifiers.
type EmailJSConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	ServiceID  string `yaml:"serviceId"`
	TemplateID string `yaml:"templateId"`
	PublicKey  string `yaml:"publicKey"`
	PrivateKey string `yaml:"privateKey"`
}

// SESConfig configures delivery through Amazon SES.
type SESConfig struct {
	Region    string `yaml:"region"`
	Sender    string `yaml:"sender"`
	Recipient string `yaml:"recipient"`
}

// SNSConfig configures team notifications through Amazon SNS.
type SNSConfig struct {
	Region   string `yaml:"region"`
	TopicARN string `yaml:"topicArn"`
}

// AuthConfig configures the hosted identity provider and session tokens.
type AuthConfig struct {
	IssuerURL             string        `yaml:"issuerUrl"`
	ClientID              string        `yaml:"clientId"`
	ClientSecret          string        `yaml:"clientSecret"`
	RedirectURL           string        `yaml:"redirectUrl"`
	PostLoginRedirectURL  string        `yaml:"postLoginRedirectUrl"`
	PostLogoutRedirectURL string        `yaml:"postLogoutRedirectUrl"`
	SessionSecret         string        `yaml:"sessionSecret"`
	StateSecret           string        `yaml:"stateSecret"`
	SessionTTL            time.Duration `yaml:"sessionTtl"`
}

// ValkeyConfig contains connection information for the shared limiter store.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// Capabilities reports which credential dependent actions can run.
type Capabilities struct {
	Generation bool `json:"generation"`
	Weather    bool `json:"weather"`
	Contact    bool `json:"contact"`
	Auth       bool `json:"auth"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_INFLIGHT_GUARD"); v != "" {
		cfg.HTTP.InFlightGuard = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BACKEND"); v != "" {
		cfg.HTTP.RateLimit.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_VISION_MODEL"); v != "" {
		cfg.LLM.VisionModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_OUTPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxOutputTokens = int32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		cfg.LLM.Gemini.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.OpenAI.BaseURL = v
	}

	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}

	if v := os.Getenv("ADVISORY_PERSONA"); v != "" {
		cfg.Advisory.Persona = v
	}
	if v := os.Getenv("ADVISORY_MAX_IMAGE_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Advisory.MaxImageBytes = parsed
		}
	}

	if v := os.Getenv("RELAY_PROVIDER"); v != "" {
		cfg.Relay.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("EMAILJS_SERVICE_ID"); v != "" {
		cfg.Relay.EmailJS.ServiceID = v
	}
	if v := os.Getenv("EMAILJS_TEMPLATE_ID"); v != "" {
		cfg.Relay.EmailJS.TemplateID = v
	}
	if v := os.Getenv("EMAILJS_PUBLIC_KEY"); v != "" {
		cfg.Relay.EmailJS.PublicKey = v
	}
	if v := os.Getenv("EMAILJS_PRIVATE_KEY"); v != "" {
		cfg.Relay.EmailJS.PrivateKey = v
	}
	if v := os.Getenv("SES_REGION"); v != "" {
		cfg.Relay.SES.Region = v
	}
	if v := os.Getenv("SES_SENDER"); v != "" {
		cfg.Relay.SES.Sender = v
	}
	if v := os.Getenv("SES_RECIPIENT"); v != "" {
		cfg.Relay.SES.Recipient = v
	}
	if v := os.Getenv("SNS_REGION"); v != "" {
		cfg.Relay.SNS.Region = v
	}
	if v := os.Getenv("SNS_TOPIC_ARN"); v != "" {
		cfg.Relay.SNS.TopicARN = v
	}

	if v := os.Getenv("OIDC_ISSUER_URL"); v != "" {
		cfg.Auth.IssuerURL = v
	}
	if v := os.Getenv("OIDC_CLIENT_ID"); v != "" {
		cfg.Auth.ClientID = v
	}
	if v := os.Getenv("OIDC_CLIENT_SECRET"); v != "" {
		cfg.Auth.ClientSecret = v
	}
	if v := os.Getenv("OIDC_REDIRECT_URL"); v != "" {
		cfg.Auth.RedirectURL = v
	}
	if v := os.Getenv("AUTH_POST_LOGIN_REDIRECT_URL"); v != "" {
		cfg.Auth.PostLoginRedirectURL = v
	}
	if v := os.Getenv("AUTH_POST_LOGOUT_REDIRECT_URL"); v != "" {
		cfg.Auth.PostLogoutRedirectURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("STATE_SECRET"); v != "" {
		cfg.Auth.StateSecret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.SessionTTL = parsed
		}
	}

	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:       ":8080",
			ReadTimeout:   15 * time.Second,
			WriteTimeout:  90 * time.Second,
			InFlightGuard: true,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				Backend:           "memory",
				RequestsPerMinute: 30,
				Burst:             10,
				MaxClients:        10000,
			},
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			Model:           "gemini-2.0-flash",
			VisionModel:     "gemini-2.0-flash",
			Temperature:     0.4,
			MaxOutputTokens: 2048,
			Timeout:         60 * time.Second,
			OpenAI: OpenAIConfig{
				BaseURL: "https://api.openai.com/v1",
			},
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Units:   "metric",
			Timeout: 10 * time.Second,
		},
		Advisory: AdvisoryConfig{
			Persona:          "You are an expert agricultural advisor helping small and medium farmers in India. Give practical, farmer friendly advice.",
			MaxSuggestions:   8,
			ForecastDays:     7,
			MaxImageBytes:    5 << 20,
			ReadinessEntries: 3,
		},
		Relay: RelayConfig{
			Provider: "emailjs",
			ToName:   "BeejSeBazaar Team",
			EmailJS: EmailJSConfig{
				BaseURL: "https://api.emailjs.com/api/v1.0",
			},
		},
		Auth: AuthConfig{
			SessionTTL:            24 * time.Hour,
			PostLoginRedirectURL:  "/",
			PostLogoutRedirectURL: "/",
		},
	}
}

// Validate ensures the configuration is safe to use. Missing credentials are
// not errors; the dependent actions report config_missing instead.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		return errors.New("http timeouts must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
		switch c.HTTP.RateLimit.Backend {
		case "memory":
		case "valkey":
			if strings.TrimSpace(c.Valkey.Addr) == "" {
				return errors.New("valkey.addr cannot be empty when the valkey rate limit backend is selected")
			}
		default:
			return fmt.Errorf("unknown http.rateLimit.backend %q", c.HTTP.RateLimit.Backend)
		}
	}
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Advisory.MaxSuggestions <= 0 {
		return errors.New("advisory.maxSuggestions must be positive")
	}
	if c.Advisory.ForecastDays <= 0 {
		return errors.New("advisory.forecastDays must be positive")
	}
	if c.Advisory.MaxImageBytes <= 0 {
		return errors.New("advisory.maxImageBytes must be positive")
	}
	if c.Advisory.ReadinessEntries <= 0 {
		return errors.New("advisory.readinessEntries must be positive")
	}
	switch c.Relay.Provider {
	case "emailjs", "ses", "sns":
	default:
		return fmt.Errorf("unknown relay.provider %q", c.Relay.Provider)
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.sessionTtl must be positive")
	}
	return nil
}

// Capabilities reports which actions have the credentials they need.
func (c *Config) Capabilities() Capabilities {
	return Capabilities{
		Generation: c.generationConfigured(),
		Weather:    strings.TrimSpace(c.Weather.APIKey) != "",
		Contact:    c.relayConfigured(),
		Auth:       c.AuthConfigured(),
	}
}

// AuthConfigured reports whether sign-in can be attempted.
func (c *Config) AuthConfigured() bool {
	a := c.Auth
	return strings.TrimSpace(a.IssuerURL) != "" &&
		strings.TrimSpace(a.ClientID) != "" &&
		strings.TrimSpace(a.RedirectURL) != "" &&
		strings.TrimSpace(a.SessionSecret) != ""
}

func (c *Config) generationConfigured() bool {
	if c.LLM.Provider == "openai" {
		return strings.TrimSpace(c.LLM.OpenAI.APIKey) != ""
	}
	return strings.TrimSpace(c.LLM.Gemini.APIKey) != ""
}

func (c *Config) relayConfigured() bool {
	switch c.Relay.Provider {
	case "ses":
		return c.Relay.SES.Sender != "" && c.Relay.SES.Recipient != ""
	case "sns":
		return c.Relay.SNS.TopicARN != ""
	default:
		e := c.Relay.EmailJS
		return e.ServiceID != "" && e.TemplateID != "" && e.PublicKey != ""
	}
}
