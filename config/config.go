package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port             string
	ShopDomain       string
	ShopifyToken     string
	ShopifyAPIVer    string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	RequestTimeout   time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8087"),
		ShopDomain:       os.Getenv("SHOPIFY_SHOP"),
		ShopifyToken:     os.Getenv("SHOPIFY_ACCESS_TOKEN"),
		ShopifyAPIVer:    getEnv("SHOPIFY_API_VERSION", "2024-01"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		RequestTimeout:   30 * time.Second,
	}

	if cfg.ShopDomain == "" {
		return cfg, fmt.Errorf("SHOPIFY_SHOP not set")
	}
	if cfg.ShopifyToken == "" {
		return cfg, fmt.Errorf("SHOPIFY_ACCESS_TOKEN not set")
	}
	if cfg.TwilioAccountSID == "" {
		return cfg, fmt.Errorf("TWILIO_ACCOUNT_SID not set")
	}
	if cfg.TwilioAuthToken == "" {
		return cfg, fmt.Errorf("TWILIO_AUTH_TOKEN not set")
	}
	if cfg.TwilioFromNumber == "" {
		return cfg, fmt.Errorf("TWILIO_FROM_NUMBER not set")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
