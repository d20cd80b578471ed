package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"liveness-bot/project/dto"
	"liveness-bot/project/infrastructure/httpsec"
	"liveness-bot/project/service"
)

// InteractionsHandler は Slack インタラクティブコンポーネント
// （確認プロンプトのボタンクリック）のコールバックを処理します
type InteractionsHandler struct {
	signingSecret   string
	livenessService service.LivenessService
}

// NewInteractionsHandler はインタラクションハンドラーを作成します
func NewInteractionsHandler(signingSecret string, livenessService service.LivenessService) *InteractionsHandler {
	return &InteractionsHandler{
		signingSecret:   signingSecret,
		livenessService: livenessService,
	}
}

// ServeHTTP は Slack インタラクション受信エンドポイントです
// Slack のプロトコル上、応答（ack）は 3 秒以内に返す必要があるため、
// ペイロードの取り出しに成功したら即座に 200 を返し、
// ビジネスロジックは応答後に別タスクとして実行します
func (h *InteractionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// body を読み込む（署名検証用）
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "リクエスト本体の読み込み失敗", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Slack 署名検証
	if err := httpsec.VerifySlackRequest(h.signingSecret, r.Header, body); err != nil {
		http.Error(w, "署名検証失敗", http.StatusUnauthorized)
		return
	}

	// form パース（payload フィールドに JSON が入っています）
	values, err := url.ParseQuery(string(body))
	if err != nil {
		http.Error(w, "form パース失敗", http.StatusBadRequest)
		return
	}

	var cb dto.SlackInteractionRequest
	if err := json.Unmarshal([]byte(values.Get("payload")), &cb); err != nil {
		http.Error(w, "ペイロード JSON パース失敗", http.StatusBadRequest)
		return
	}

	// ボタンクリック以外、またはアクションが空のペイロードは受領のみ
	if cb.Type != "block_actions" || len(cb.Actions) == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	ev := service.InteractionEvent{
		ActionID:  cb.Actions[0].ActionID,
		Value:     cb.Actions[0].Value,
		ChannelID: cb.Channel.ID,
		MessageTS: cb.Message.Timestamp,
	}

	// 即時 ack。ここから先の成否は応答に影響しません
	w.WriteHeader(http.StatusOK)

	go h.process(&ev)
}

// process は ack 後のビジネスロジックを実行します
func (h *InteractionsHandler) process(ev *service.InteractionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.livenessService.OnInteraction(ctx, ev); err != nil {
		log.Error().
			Err(err).
			Str("action", ev.ActionID).
			Str("channel", ev.ChannelID).
			Msg("インタラクション処理エラー")
	}
}
