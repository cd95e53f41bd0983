package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestProfileLookup(t *testing.T) {
	p, ok := Profile("")
	require.True(t, ok)
	assert.Equal(t, "standard", p.Name)
	assert.Equal(t, 5, p.BulletCount)
	assert.Equal(t, 3300, p.DescriptionMin)
	assert.Equal(t, 3700, p.DescriptionMax)

	p, ok = Profile("extended")
	require.True(t, ok)
	assert.Equal(t, 7, p.BulletCount)
	assert.Equal(t, 3000, p.DescriptionMin)
	assert.Equal(t, 4000, p.DescriptionMax)
	assert.True(t, p.AllowEmojiBulletLabel)

	_, ok = Profile("no-such-profile")
	assert.False(t, ok)
}

func TestLoadProfileOverridesMergesOverPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	data := "profiles:\n  standard:\n    bullet_count: 6\n  house:\n    title_min: 100\n    title_max: 180\n    title_hard_max: 200\n    bullet_count: 5\n    bullet_min: 80\n    bullet_max: 200\n    description_min: 2000\n    description_max: 2500\n    backend_max_bytes: 249\n    require_brand_prefix: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	require.NoError(t, LoadProfileOverrides(path))
	t.Cleanup(func() {
		// Restore the preset the test mutated.
		p, _ := Profile("standard")
		p.BulletCount = 5
		presets["standard"] = p
		delete(presets, "house")
	})

	p, ok := Profile("standard")
	require.True(t, ok)
	assert.Equal(t, 6, p.BulletCount, "overridden field")
	assert.Equal(t, 3300, p.DescriptionMin, "untouched field keeps preset value")

	h, ok := Profile("house")
	require.True(t, ok)
	assert.Equal(t, 2000, h.DescriptionMin)
	assert.Equal(t, "house", h.Name)
}

func TestMarketplaceLanguage(t *testing.T) {
	assert.Equal(t, language.German, MarketplaceLanguage("amazon.de"))
	assert.Equal(t, language.French, MarketplaceLanguage(" Amazon.FR "))
	assert.Equal(t, language.English, MarketplaceLanguage("amazon.com"))
	assert.Equal(t, language.English, MarketplaceLanguage(""))
	assert.Equal(t, "German", LanguageName(MarketplaceLanguage("amazon.de")))
}

func TestApplyEnvToConfig(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("GEN_TIMEOUT", "90s")
	t.Setenv("VERBOSE", "true")

	cfg := Config{LLMModel: "explicit-model"}
	t.Setenv("LLM_MODEL", "env-model")
	ApplyEnvToConfig(&cfg)

	assert.Equal(t, "sk-test", cfg.LLMAPIKey)
	assert.Equal(t, "explicit-model", cfg.LLMModel, "explicit value wins over env")
	assert.Equal(t, 90*time.Second, cfg.GenTimeout)
	assert.True(t, cfg.Verbose)
}

func TestConfigValidate(t *testing.T) {
	cfg := Defaults()
	assert.ErrorIs(t, cfg.Validate(false), ErrMissingAPIKey)

	cfg.LLMAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate(false))
	assert.ErrorIs(t, cfg.Validate(true), ErrMissingAuthSecret)

	cfg.AuthSecret = "secret"
	assert.NoError(t, cfg.Validate(true))

	cfg.DefaultProfile = "bogus"
	assert.Error(t, cfg.Validate(true))
}
