package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values
type Config struct {
	Server   ServerConfig
	Brevo    BrevoConfig
	Waitlist WaitlistConfig
	LogLevel string
}

type ServerConfig struct {
	Port           string
	GinMode        string
	Environment    string
	AllowedOrigins []string
}

// BrevoConfig identifies the contact list and the welcome template in the
// Brevo account. APIKey may be empty; intake then answers with a
// configuration error instead of refusing to start.
type BrevoConfig struct {
	APIKey            string
	BaseURL           string
	ListID            int64
	WelcomeTemplateID int64
	Timeout           time.Duration
}

// WaitlistConfig carries the campaign copy sent along with each contact.
type WaitlistConfig struct {
	DefaultSource   string
	Timezone        string
	Product         string
	Discount        string
	PriceOriginal   string
	PriceDiscounted string
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// WelcomeEnabled reports whether a welcome template is configured.
func (b BrevoConfig) WelcomeEnabled() bool {
	return b.WelcomeTemplateID > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	v.SetDefault("BREVO_API_KEY", "")
	v.SetDefault("BREVO_BASE_URL", "https://api.brevo.com/v3")
	v.SetDefault("BREVO_LIST_ID", 4)
	v.SetDefault("BREVO_WELCOME_TEMPLATE_ID", 1)
	v.SetDefault("BREVO_TIMEOUT_SECONDS", 10)

	v.SetDefault("WAITLIST_DEFAULT_SOURCE", "Landing Page AgroPricing")
	v.SetDefault("WAITLIST_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("WELCOME_PRODUCT", "AgroPricing Pro")
	v.SetDefault("WELCOME_DISCOUNT", "50%")
	v.SetDefault("WELCOME_PRICE_ORIGINAL", "R$ 249/mês")
	v.SetDefault("WELCOME_PRICE_DISCOUNTED", "R$ 125/mês")
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			Environment:    v.GetString("ENVIRONMENT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Brevo: BrevoConfig{
			APIKey:            strings.TrimSpace(v.GetString("BREVO_API_KEY")),
			BaseURL:           strings.TrimRight(v.GetString("BREVO_BASE_URL"), "/"),
			ListID:            v.GetInt64("BREVO_LIST_ID"),
			WelcomeTemplateID: v.GetInt64("BREVO_WELCOME_TEMPLATE_ID"),
			Timeout:           time.Duration(v.GetInt("BREVO_TIMEOUT_SECONDS")) * time.Second,
		},
		Waitlist: WaitlistConfig{
			DefaultSource:   v.GetString("WAITLIST_DEFAULT_SOURCE"),
			Timezone:        v.GetString("WAITLIST_TIMEZONE"),
			Product:         v.GetString("WELCOME_PRODUCT"),
			Discount:        v.GetString("WELCOME_DISCOUNT"),
			PriceOriginal:   v.GetString("WELCOME_PRICE_ORIGINAL"),
			PriceDiscounted: v.GetString("WELCOME_PRICE_DISCOUNTED"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Brevo.BaseURL == "" {
		return fmt.Errorf("BREVO_BASE_URL must not be empty")
	}
	if c.Brevo.ListID <= 0 {
		return fmt.Errorf("BREVO_LIST_ID must be positive, got %d", c.Brevo.ListID)
	}
	if c.Brevo.Timeout <= 0 {
		return fmt.Errorf("BREVO_TIMEOUT_SECONDS must be positive")
	}
	if c.Waitlist.DefaultSource == "" {
		return fmt.Errorf("WAITLIST_DEFAULT_SOURCE must not be empty")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
