package sumsub

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

// websdkLink エンドポイントのパラメータ定義
const (
	websdkLinkPath = "/resources/applicants/-/websdkLink"

	// levelName は liveness 検証のみを要求する検証レベル
	levelName = "liveness-only"

	// ttlInSecs はリンクの有効期限（秒）。期限管理はサービス側で行われます
	ttlInSecs = 600
)

// Client は service.VerificationPort の Sumsub API 実装です
type Client struct {
	baseURL    string
	appToken   string
	secretKey  string
	httpClient *http.Client
}

// NewClient は Sumsub クライアントを初期化します
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.SumsubBaseURL,
		appToken:   cfg.SumsubAppToken,
		secretKey:  cfg.SumsubSecretKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// websdkLinkRequest は websdkLink エンドポイントへのリクエストボディです
type websdkLinkRequest struct {
	LevelName string `json:"levelName"`
	TTLInSecs int    `json:"ttlInSecs"`
}

// websdkLinkResponse は websdkLink エンドポイントのレスポンスボディです
type websdkLinkResponse struct {
	URL string `json:"url"`
}

// CreateLivenessLink は指定プレイヤー向けの liveness 検証セッションを作成し、
// WebSDK リンクの URL を返します
// 通信エラー・非2xx応答・URL欠落はいずれも domain.ErrDownstream として返します
// リトライは行いません（at-most-once）
func (c *Client) CreateLivenessLink(ctx context.Context, externalPlayerID string) (string, error) {
	reqBody, err := json.Marshal(websdkLinkRequest{
		LevelName: levelName,
		TTLInSecs: ttlInSecs,
	})
	if err != nil {
		return "", fmt.Errorf("sumsub: リクエストボディの JSON 化失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+websdkLinkPath, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("sumsub: リクエスト作成失敗: %w", err)
	}

	// プレイヤーIDと静的認証情報はヘッダで渡します
	req.Header.Set("X-External-User-ID", externalPlayerID)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Token", c.appToken)
	req.Header.Set("X-App-Access-Token", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sumsub: リンク作成リクエスト送信失敗 (%v): %w", err, domain.ErrDownstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("sumsub: レスポンス読み込み失敗 (%v): %w", err, domain.ErrDownstream)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 観測性のため上流のステータスと本文を付与
		return "", fmt.Errorf("sumsub: リンク作成失敗 (status=%d, body=%s): %w",
			resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrDownstream)
	}

	var linkResp websdkLinkResponse
	if err := json.Unmarshal(body, &linkResp); err != nil {
		return "", fmt.Errorf("sumsub: レスポンス JSON パース失敗 (%v): %w", err, domain.ErrDownstream)
	}

	if linkResp.URL == "" {
		return "", fmt.Errorf("sumsub: レスポンスに url フィールドがありません: %w", domain.ErrDownstream)
	}

	return linkResp.URL, nil
}
