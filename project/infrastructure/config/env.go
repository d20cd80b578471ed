package config

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/kelseyhightower/envconfig"
)

// Config は起動時に一度だけ構築される不変のアプリケーション設定です
// ビジネスロジック内での環境変数参照は行わず、各コンポーネントの
// コンストラクタへ参照渡しします
type Config struct {
	// 基本設定
	Port     string `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// GCP設定（設定時はシークレットを Secret Manager から取得）
	GcpProject string `envconfig:"GCP_PROJECT"`

	// Slack API設定
	SlackSigningSecret string `envconfig:"SLACK_SIGNING_SECRET"`
	SlackBotToken      string `envconfig:"SLACK_BOT_TOKEN"`
	TargetChannelID    string `envconfig:"TARGET_CHANNEL_ID"`

	// Sumsub（本人確認サービス）設定
	SumsubBaseURL   string `envconfig:"SUMSUB_BASE_URL" default:"https://api.sumsub.com"`
	SumsubAppToken  string `envconfig:"SUMSUB_APP_TOKEN"`
	SumsubSecretKey string `envconfig:"SUMSUB_SECRET_KEY"`

	// Intercom（メッセージングサービス）設定
	IntercomBaseURL string `envconfig:"INTERCOM_BASE_URL" default:"https://api.intercom.io"`
	IntercomToken   string `envconfig:"INTERCOM_TOKEN"`
	IntercomAdminID string `envconfig:"INTERCOM_ADMIN_ID"`
}

// Secret Manager 上のシークレット名と Config フィールドの対応
var secretFields = []struct {
	name  string
	field func(*Config) *string
}{
	{"slack-signing-secret", func(c *Config) *string { return &c.SlackSigningSecret }},
	{"slack-bot-token", func(c *Config) *string { return &c.SlackBotToken }},
	{"sumsub-app-token", func(c *Config) *string { return &c.SumsubAppToken }},
	{"sumsub-secret-key", func(c *Config) *string { return &c.SumsubSecretKey }},
	{"intercom-token", func(c *Config) *string { return &c.IntercomToken }},
}

// NewConfig は環境変数から設定を読み込み、Config構造体を返します
// GCP_PROJECT が設定されている場合、センシティブな情報（Slack認証情報など）は
// Secret Manager から取得して環境変数の値を上書きします
func NewConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: 環境変数の読み込み失敗: %w", err)
	}

	if cfg.GcpProject != "" {
		if err := cfg.loadSecrets(ctx); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadSecrets は Secret Manager からシークレットを取得して設定を上書きします
func (c *Config) loadSecrets(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("config: Secret Manager クライアント初期化失敗: %w", err)
	}
	defer client.Close()

	for _, sf := range secretFields {
		value, err := getSecretFromManager(ctx, client, c.GcpProject, sf.name)
		if err != nil {
			return err
		}
		*sf.field(c) = value
	}

	return nil
}

// validate は必須項目が揃っているかを検証します
func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"SLACK_SIGNING_SECRET", c.SlackSigningSecret},
		{"SLACK_BOT_TOKEN", c.SlackBotToken},
		{"TARGET_CHANNEL_ID", c.TargetChannelID},
		{"SUMSUB_APP_TOKEN", c.SumsubAppToken},
		{"SUMSUB_SECRET_KEY", c.SumsubSecretKey},
		{"INTERCOM_TOKEN", c.IntercomToken},
		{"INTERCOM_ADMIN_ID", c.IntercomAdminID},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("config: 必須設定が未設定です: %s", r.name)
		}
	}

	return nil
}

// getSecretFromManager は Secret Manager から指定されたシークレットの最新版を取得します
func getSecretFromManager(ctx context.Context, client *secretmanager.Client, projectID, secretName string) (string, error) {
	// リソース名形式: projects/{project_id}/secrets/{secret_name}/versions/latest
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretName)

	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	}

	result, err := client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("config: Secret Manager からの取得失敗 (name=%s): %w", secretName, err)
	}

	secret := string(result.Payload.Data)
	if secret == "" {
		return "", fmt.Errorf("config: Secret Manager のシークレット値が空です (name=%s)", secretName)
	}

	return secret, nil
}
