package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"liveness-bot/project/handler"
	"liveness-bot/project/infrastructure/config"
	"liveness-bot/project/infrastructure/intercom"
	slackinfra "liveness-bot/project/infrastructure/slack"
	"liveness-bot/project/infrastructure/sumsub"
	"liveness-bot/project/service"
)

func main() {
	ctx := context.Background()

	// ローカル開発用の .env を読み込む（無ければ無視）
	_ = godotenv.Load()

	// 1. 設定を読み込む
	cfg, err := config.NewConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("設定読み込み失敗")
	}

	// 2. ロガーを設定
	setupLogger(cfg)

	// 3. 依存関係を初期化
	// Slack API ポート実装
	slackClient := slackinfra.NewClient(cfg.SlackBotToken)

	// Sumsub（本人確認）ポート実装
	sumsubClient := sumsub.NewClient(cfg)

	// Intercom（プレイヤー通知）ポート実装
	intercomClient := intercom.NewClient(cfg)

	// 4. サービス層を初期化
	livenessService := service.NewLivenessService(cfg, slackClient, sumsubClient, intercomClient)

	// 5. HTTP ハンドラーを設定
	mux := http.NewServeMux()

	// Slack イベント受信（ハンドシェイク含む）
	mux.Handle("/slack/events", handler.NewEventsHandler(cfg.SlackSigningSecret, livenessService))

	// Slack ボタンクリック受信
	mux.Handle("/slack/interactions", handler.NewInteractionsHandler(cfg.SlackSigningSecret, livenessService))

	// ヘルスチェック（ホスティング基盤の死活監視用）
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Slack Liveness Bot Running"))
	})

	// 6. サーバー起動
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("addr", addr).Msg("サーバー起動")

	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("サーバーエラー")
	}
}

// setupLogger はグローバルロガーを設定します
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// ローカル開発ではコンソール出力に切り替え
	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
