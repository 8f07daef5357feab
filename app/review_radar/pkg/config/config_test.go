package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "zh-TW", cfg.Scrape.Language)
	assert.Equal(t, 60*time.Second, cfg.Scrape.ReviewsTimeout.Std())
	assert.Equal(t, 10, cfg.Scrape.PlaceScrolls)
	assert.Equal(t, 5, cfg.Scrape.ProfileScrolls)
	assert.Equal(t, "local", cfg.Browser.Host)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":9090"
scrape:
  sort_settle: "1s"
  place_scrolls: 3
llm:
  gemini:
    model: "gemini-2.5-flash"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Second, cfg.Scrape.SortSettle.Std())
	assert.Equal(t, 3, cfg.Scrape.PlaceScrolls)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Gemini.Model)
	// 未出现的字段保持默认
	assert.Equal(t, 30*time.Second, cfg.Scrape.NavigationTimeout.Std())
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scrape:\n  tab_timeout: soon\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"GEMINI_API_KEY": " g-test ",
		"BROWSER_HOST":   "serverless",
		"CHROMIUM_PATH":  "/tmp/chromium",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "g-test", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "serverless", cfg.Browser.Host)
	assert.Equal(t, "/tmp/chromium", cfg.Browser.BundledBin)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
