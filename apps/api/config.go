package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	devCORSOriginLocalhost = "http://localhost:3000"
	devCORSOriginLoopback  = "http://127.0.0.1:3000"
)

// Brand is the business identity printed in outgoing mail.
type Brand struct {
	Name    string `env:"BRAND_NAME" envDefault:"Komtifix"`
	Phone   string `env:"BRAND_PHONE" envDefault:"0633002254"`
	Address string `env:"BRAND_ADDRESS" envDefault:"Pr. Annalaan 343, 2263 XK Leidschendam"`
	City    string `env:"BRAND_CITY" envDefault:"Leidschendam"`
}

// ContactConfig holds the values the contact endpoint cannot work without.
// They are deliberately optional at startup: a missing value is reported
// per request as ServerMisconfigured.
type ContactConfig struct {
	RecipientAddress   string `env:"TO_EMAIL"`
	SenderAddress      string `env:"FROM_EMAIL"`
	ProviderCredential string `env:"RESEND_API_KEY"`
}

// Missing lists the environment keys of every absent value.
func (c ContactConfig) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.RecipientAddress) == "" {
		missing = append(missing, "TO_EMAIL")
	}
	if strings.TrimSpace(c.SenderAddress) == "" {
		missing = append(missing, "FROM_EMAIL")
	}
	if strings.TrimSpace(c.ProviderCredential) == "" {
		missing = append(missing, "RESEND_API_KEY")
	}
	return missing
}

type Config struct {
	Addr          string        `env:"GIN_ADDR" envDefault:":8080"`
	Env           string        `env:"APP_ENV" envDefault:"development"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"https://komtifix.nl"`
	SendTimeout   time.Duration `env:"MAILER_SEND_TIMEOUT" envDefault:"10s"`
	Contact       ContactConfig
	Brand         Brand
}

func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Env = strings.TrimSpace(cfg.Env)
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.Contact.RecipientAddress = strings.TrimSpace(cfg.Contact.RecipientAddress)
	cfg.Contact.SenderAddress = strings.TrimSpace(cfg.Contact.SenderAddress)
	cfg.Contact.ProviderCredential = strings.TrimSpace(cfg.Contact.ProviderCredential)

	if cfg.Addr == "" {
		return nil, fmt.Errorf("GIN_ADDR must not be empty")
	}
	if cfg.SendTimeout <= 0 {
		return nil, fmt.Errorf("MAILER_SEND_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(cfg.Brand.Name) == "" {
		return nil, fmt.Errorf("BRAND_NAME must not be empty")
	}

	return cfg, nil
}

// loadDotEnvFile populates unset variables from path. A missing file is fine.
func loadDotEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
