package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"liveness-bot/project/service"
)

const testSigningSecret = "test-signing-secret"

// fakeLivenessService はハンドラーテスト用の LivenessService フェイクです
type fakeLivenessService struct {
	onMessageFn     func(ctx context.Context, ev *service.MessageEvent) error
	onInteractionFn func(ctx context.Context, ev *service.InteractionEvent) error
}

func (f *fakeLivenessService) OnMessage(ctx context.Context, ev *service.MessageEvent) error {
	if f.onMessageFn != nil {
		return f.onMessageFn(ctx, ev)
	}
	return nil
}

func (f *fakeLivenessService) OnInteraction(ctx context.Context, ev *service.InteractionEvent) error {
	if f.onInteractionFn != nil {
		return f.onInteractionFn(ctx, ev)
	}
	return nil
}

// signRequest は Slack 署名ヘッダをテストリクエストに付与します
func signRequest(r *http.Request, body []byte) {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	mac.Write([]byte("v0:" + ts + ":" + string(body)))
	signature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	r.Header.Set("X-Slack-Request-Timestamp", ts)
	r.Header.Set("X-Slack-Signature", signature)
}
