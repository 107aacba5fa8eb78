package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenirmoveis/assistant/internal/llm"
	"github.com/zenirmoveis/assistant/internal/service"
)

func TestLoad_LegacyLLMKeys(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("API_GROQ_KEY", "gsk_legacy")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("LLM", "deepseek-r1-distill-llama-70b")
	t.Setenv("LLM_BASE_URL", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("CART_URL_BASE", "")
	t.Setenv("COUPON_CODE", "")

	cfg := Load()

	assert.Equal(t, "gsk_legacy", cfg.LLM.APIKey)
	assert.Equal(t, "deepseek-r1-distill-llama-70b", cfg.LLM.Model)
	assert.Equal(t, llm.DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, llm.DefaultTimeout, cfg.LLM.Timeout)
	assert.Equal(t, service.DefaultCartURLBase, cfg.Offer.CartURLBase)
	assert.Equal(t, service.DefaultCouponCode, cfg.Offer.CouponCode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "gsk_new")
	t.Setenv("API_GROQ_KEY", "gsk_legacy")
	t.Setenv("LLM_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("LLM_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("COUPON_CODE", "VOLTA5")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ES_URL", "http://es:9200")

	cfg := Load()

	assert.Equal(t, "gsk_new", cfg.LLM.APIKey)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "VOLTA5", cfg.Offer.CouponCode)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "http://es:9200", cfg.ESConfig().URL)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COUPON_CODE=DOTENV5\n"), 0o600))
	t.Setenv("COUPON_CODE", "")
	require.NoError(t, os.Unsetenv("COUPON_CODE"))

	LoadEnvFile(path)
	t.Cleanup(func() { _ = os.Unsetenv("COUPON_CODE") })

	assert.Equal(t, "DOTENV5", Load().Offer.CouponCode)

	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}
