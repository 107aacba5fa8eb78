package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/zenirmoveis/assistant/internal/analytics"
	"github.com/zenirmoveis/assistant/internal/llm"
	"github.com/zenirmoveis/assistant/internal/service"
	pkgconfig "github.com/zenirmoveis/assistant/pkg/config"
)

type Config struct {
	pkgconfig.Config

	LLM   llm.Config
	Offer service.CopyOffer
}

// LoadEnvFile reads .env when present. Variables already set in the
// environment win.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("Notice: %s file not found: %v. Using system environment variables", path, err)
	}
}

func Load() *Config {
	return &Config{
		Config: pkgconfig.Load(),
		LLM: llm.Config{
			APIKey:  pkgconfig.FirstEnv("LLM_API_KEY", "API_GROQ_KEY"),
			Model:   pkgconfig.FirstEnv("LLM_MODEL", "LLM"),
			BaseURL: pkgconfig.EnvDefault("LLM_BASE_URL", llm.DefaultBaseURL),
			Timeout: pkgconfig.EnvDurationDefault("LLM_TIMEOUT", llm.DefaultTimeout),
		},
		Offer: service.CopyOffer{
			CartURLBase: pkgconfig.EnvDefault("CART_URL_BASE", service.DefaultCartURLBase),
			CouponCode:  pkgconfig.EnvDefault("COUPON_CODE", service.DefaultCouponCode),
		},
	}
}

// MustLoad is Load plus the checks the server cannot start without.
func MustLoad() *Config {
	cfg := Load()
	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}

func (c *Config) ESConfig() analytics.ESConfig {
	return analytics.ESConfig{
		URL:      c.ESURL,
		User:     c.ESUser,
		Password: c.ESPassword,
		Index:    c.ESIndex,
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
