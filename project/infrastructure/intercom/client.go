package intercom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"liveness-bot/project/domain"
	"liveness-bot/project/infrastructure/config"
)

const messagesPath = "/messages"

// messageBodyTemplate はプレイヤー向け案内メッセージの定型文です
// %s に検証リンクが展開されます
const messageBodyTemplate = "For security verification, please complete your liveness check:\n%s"

// Client は service.NotifyPort の Intercom API 実装です
type Client struct {
	baseURL     string
	accessToken string
	adminID     string
	httpClient  *http.Client
}

// NewClient は Intercom クライアントを初期化します
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:     cfg.IntercomBaseURL,
		accessToken: cfg.IntercomToken,
		adminID:     cfg.IntercomAdminID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// messageRequest は /messages エンドポイントへのリクエストボディです
type messageRequest struct {
	MessageType string       `json:"message_type"` // "inapp"
	From        messageParty `json:"from"`
	To          messageParty `json:"to"`
	Body        string       `json:"body"`
}

// messageParty は送信者（admin）または受信者（user）を表します
type messageParty struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`      // admin の場合
	UserID string `json:"user_id,omitempty"` // user の場合（external_player_id）
}

// SendVerificationMessage は検証リンクを含む案内メッセージを
// 指定プレイヤーにアプリ内通知として送信します
// 成功判定は HTTP ステータスが 2xx であることのみで、配信確認は行いません
// リトライは行いません（at-most-once）
func (c *Client) SendVerificationMessage(ctx context.Context, externalPlayerID, link string) error {
	reqBody, err := json.Marshal(messageRequest{
		MessageType: "inapp",
		From:        messageParty{Type: "admin", ID: c.adminID},
		To:          messageParty{Type: "user", UserID: externalPlayerID},
		Body:        fmt.Sprintf(messageBodyTemplate, link),
	})
	if err != nil {
		return fmt.Errorf("intercom: リクエストボディの JSON 化失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("intercom: リクエスト作成失敗: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("intercom: メッセージ送信失敗 (%v): %w", err, domain.ErrDownstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 観測性のため上流のステータスと本文を付与
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("intercom: メッセージ送信が拒否されました (status=%d, body=%s): %w",
			resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrDownstream)
	}

	return nil
}
