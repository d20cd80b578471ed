package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"liveness-bot/project/domain"
	"liveness-bot/project/infrastructure/config"
)

// ユーザー向け返信メッセージ
const (
	msgLivenessSent     = "Liveness link sent to player via Intercom."
	msgExtractFailed    = "Could not extract external_player_id."
	msgDeclined         = "Ok, no liveness will be initiated."
	msgDownstreamFailed = "Could not complete the verification request. Please retry."
)

// ignoredSubTypes は確認プロンプトを出さないシステムメッセージ種別です
// 編集・削除・参加通知・スレッドブロードキャストへの再プロンプトを防ぎます
var ignoredSubTypes = map[string]bool{
	"message_changed":  true,
	"message_deleted":  true,
	"channel_join":     true,
	"thread_broadcast": true,
}

// LivenessService は liveness 検証フローの確認オーケストレーターです
// メッセージ検知 → 確認プロンプト → ボタン応答 → 検証リンク発行 → プレイヤー通知
// の一連の流れを制御します
type LivenessService interface {
	// OnMessage はメッセージイベント検知時に呼ばれ、対象メッセージであれば
	// スレッドに Yes/No の確認プロンプトを投稿します
	// 対象外のメッセージ（空テキスト・対象外チャンネル・システムメッセージ）は
	// 何もせず正常終了します
	OnMessage(ctx context.Context, ev *MessageEvent) error

	// OnInteraction はボタンクリック時に呼ばれ、Yes なら
	// 抽出 → リンク発行 → 通知 → 結果返信 を順に実行し、
	// No なら中止の旨をスレッドに返信します
	OnInteraction(ctx context.Context, ev *InteractionEvent) error
}

// livenessService は LivenessService の実装です
type livenessService struct {
	cfg *config.Config
	sp  SlackPort
	vp  VerificationPort
	np  NotifyPort
}

// NewLivenessService は LivenessService のインスタンスを作成します
func NewLivenessService(cfg *config.Config, sp SlackPort, vp VerificationPort, np NotifyPort) LivenessService {
	return &livenessService{
		cfg: cfg,
		sp:  sp,
		vp:  vp,
		np:  np,
	}
}

// OnMessage は対象メッセージに確認プロンプトを投稿します
func (ls *livenessService) OnMessage(ctx context.Context, ev *MessageEvent) error {
	// テキストのないメッセージ（添付ファイルのみ等）は無視
	if ev.Text == "" {
		return nil
	}

	// 対象チャンネル以外は無視
	if ev.ChannelID != ls.cfg.TargetChannelID {
		return nil
	}

	// 編集・削除等のシステムメッセージは無視
	if ignoredSubTypes[ev.SubType] {
		return nil
	}

	// 元メッセージのスレッドに確認プロンプトを投稿
	// 生テキストは Yes ボタンの value に往復させ、サーバー側には保持しません
	if err := ls.sp.PostConfirmPrompt(ctx, ev.ChannelID, ev.MessageTS, ev.Text); err != nil {
		return fmt.Errorf("OnMessage: 確認プロンプト投稿失敗: %w", err)
	}

	log.Debug().
		Str("channel", ev.ChannelID).
		Str("ts", ev.MessageTS).
		Msg("確認プロンプトを投稿しました")

	return nil
}

// OnInteraction はボタンクリックを処理します
func (ls *livenessService) OnInteraction(ctx context.Context, ev *InteractionEvent) error {
	switch ev.ActionID {
	case ActionSendLivenessYes:
		return ls.confirm(ctx, ev)
	case ActionSendLivenessNo:
		return ls.decline(ctx, ev)
	default:
		// 未知のアクションは無視（エラーではない）
		return nil
	}
}

// confirm は Yes 応答を処理します
// 抽出 → リンク発行 → プレイヤー通知 → 完了返信 を厳密にこの順で実行します
func (ls *livenessService) confirm(ctx context.Context, ev *InteractionEvent) error {
	// ボタンに往復させた生テキストからプレイヤーIDを抽出
	playerID, err := domain.ExtractExternalPlayerID(ev.Value)
	if err != nil {
		// 抽出失敗はスレッドへの通知で完結（下流呼び出しは行わない）
		if perr := ls.sp.PostThreadMessage(ctx, ev.ChannelID, ev.MessageTS, msgExtractFailed); perr != nil {
			return fmt.Errorf("confirm: 抽出失敗通知の投稿失敗: %w", perr)
		}
		return nil
	}

	// liveness 検証セッションのリンクを発行
	link, err := ls.vp.CreateLivenessLink(ctx, playerID)
	if err != nil {
		return ls.reportDownstreamFailure(ctx, ev, fmt.Errorf("confirm: リンク発行失敗 (player=%s): %w", playerID, err))
	}

	// プレイヤーにリンクを通知
	if err := ls.np.SendVerificationMessage(ctx, playerID, link); err != nil {
		return ls.reportDownstreamFailure(ctx, ev, fmt.Errorf("confirm: プレイヤー通知失敗 (player=%s): %w", playerID, err))
	}

	// 完了をスレッドに報告
	if err := ls.sp.PostThreadMessage(ctx, ev.ChannelID, ev.MessageTS, msgLivenessSent); err != nil {
		return fmt.Errorf("confirm: 完了通知の投稿失敗: %w", err)
	}

	log.Info().
		Str("player", playerID).
		Str("channel", ev.ChannelID).
		Msg("liveness リンクを送信しました")

	return nil
}

// decline は No 応答を処理します。下流呼び出しは一切行いません
func (ls *livenessService) decline(ctx context.Context, ev *InteractionEvent) error {
	if err := ls.sp.PostThreadMessage(ctx, ev.ChannelID, ev.MessageTS, msgDeclined); err != nil {
		return fmt.Errorf("decline: 中止通知の投稿失敗: %w", err)
	}
	return nil
}

// reportDownstreamFailure は下流 API 失敗をスレッドに通知し、元のエラーを返します
// サイレント失敗を避けるため、呼び出し元への伝播の前に必ずユーザー通知を試みます
func (ls *livenessService) reportDownstreamFailure(ctx context.Context, ev *InteractionEvent, cause error) error {
	if !errors.Is(cause, domain.ErrDownstream) {
		log.Warn().Err(cause).Msg("下流エラー以外の失敗を下流失敗として報告します")
	}

	if perr := ls.sp.PostThreadMessage(ctx, ev.ChannelID, ev.MessageTS, msgDownstreamFailed); perr != nil {
		log.Error().Err(perr).Msg("下流失敗通知の投稿に失敗しました")
	}

	return cause
}
