package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SLACK_SIGNING_SECRET", "sig-secret")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-token")
	t.Setenv("TARGET_CHANNEL_ID", "C0TARGET")
	t.Setenv("SUMSUB_APP_TOKEN", "sumsub-app")
	t.Setenv("SUMSUB_SECRET_KEY", "sumsub-secret")
	t.Setenv("INTERCOM_TOKEN", "intercom-token")
	t.Setenv("INTERCOM_ADMIN_ID", "admin-1")

	// Secret Manager 経由の読み込みは無効化
	t.Setenv("GCP_PROJECT", "")
}

func TestNewConfig_LoadsFromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "C0TARGET", cfg.TargetChannelID)
	assert.Equal(t, "xoxb-token", cfg.SlackBotToken)

	// デフォルト値
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.sumsub.com", cfg.SumsubBaseURL)
	assert.Equal(t, "https://api.intercom.io", cfg.IntercomBaseURL)
}

func TestNewConfig_OverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SUMSUB_BASE_URL", "http://localhost:9001")

	cfg, err := NewConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:9001", cfg.SumsubBaseURL)
}

func TestNewConfig_MissingRequiredValue(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TARGET_CHANNEL_ID", "")

	_, err := NewConfig(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TARGET_CHANNEL_ID")
}
