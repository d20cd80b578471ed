package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"liveness-bot/project/dto"
	"liveness-bot/project/infrastructure/httpsec"
	"liveness-bot/project/service"
)

// EventsHandler は Slack Events API からのイベントを処理します
type EventsHandler struct {
	signingSecret   string
	livenessService service.LivenessService
}

// NewEventsHandler はイベントハンドラーを作成します
func NewEventsHandler(signingSecret string, livenessService service.LivenessService) *EventsHandler {
	return &EventsHandler{
		signingSecret:   signingSecret,
		livenessService: livenessService,
	}
}

// ServeHTTP は Slack イベント受信エンドポイントです
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// リクエスト本体を読み込む
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "リクエスト本体の読み込み失敗", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// まず url_verification かどうかを確認（署名検証の前に）
	var preCheck struct {
		Type      string `json:"type"`
		Challenge string `json:"challenge"`
	}
	if err := json.Unmarshal(body, &preCheck); err == nil {
		if preCheck.Type == "url_verification" {
			// ハンドシェイク: チャレンジ値をそのまま返す（署名検証をスキップ）
			log.Info().Msg("Slack チャレンジを受信しました")
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(preCheck.Challenge))
			return
		}
	}

	// Slack 署名検証（url_verification 以外のリクエスト）
	if err := httpsec.VerifySlackRequest(h.signingSecret, r.Header, body); err != nil {
		http.Error(w, "署名検証失敗", http.StatusUnauthorized)
		return
	}

	// JSON パース（完全版）
	var req dto.SlackEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "JSON パース失敗", http.StatusBadRequest)
		return
	}

	// event_callback のみ処理。その他は一律 200 で受領
	if req.Type != "event_callback" {
		w.WriteHeader(http.StatusOK)
		return
	}

	// イベント処理
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.handleEvent(ctx, req); err != nil {
		log.Error().Err(err).Str("event_id", req.EventID).Msg("イベント処理エラー")
		// Slack側への応答は成功にして、ログだけ記録
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleEvent は個別のイベントを処理します
// 対象外イベントの除外（テキスト有無・チャンネル・サブタイプ）は
// service 側のフィルタリングに委ねます
func (h *EventsHandler) handleEvent(ctx context.Context, req dto.SlackEventRequest) error {
	if req.Event.Type != "message" {
		return nil
	}

	ev := service.MessageEvent{
		ChannelID: req.Event.Channel,
		MessageTS: req.Event.Timestamp,
		Text:      req.Event.Text,
		SubType:   req.Event.SubType,
	}

	return h.livenessService.OnMessage(ctx, &ev)
}
