package httpsec

import (
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// VerifySlackRequest は Slack からのリクエストの署名を検証します
// X-Slack-Signature / X-Slack-Request-Timestamp ヘッダと本文を照合し、
// 改ざんやリプレイ攻撃から保護します（タイムスタンプは5分以内であること）
func VerifySlackRequest(signingSecret string, header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, signingSecret)
	if err != nil {
		return fmt.Errorf("httpsec: 署名検証器の初期化失敗: %w", err)
	}

	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("httpsec: 署名対象本文の書き込み失敗: %w", err)
	}

	// 定時間比較による署名照合は SDK 側で行われます
	if err := sv.Ensure(); err != nil {
		return fmt.Errorf("httpsec: 署名検証失敗: %w", err)
	}

	return nil
}
