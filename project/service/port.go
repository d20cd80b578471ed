package service

import "context"

// SlackPort は Slack API 呼び出しのポートです
type SlackPort interface {
	// PostConfirmPrompt は元メッセージのスレッドに Yes/No ボタン付きの
	// 確認プロンプトを投稿します。rawText は Yes ボタンの value に
	// そのまま埋め込まれ、確認時に再抽出されます
	PostConfirmPrompt(ctx context.Context, channelID, messageTS, rawText string) error

	// PostThreadMessage はスレッドにテキストメッセージを投稿します
	PostThreadMessage(ctx context.Context, channelID, messageTS, text string) error
}

// VerificationPort は本人確認サービスへのポートです
type VerificationPort interface {
	// CreateLivenessLink は指定プレイヤー向けの liveness 検証セッションを作成し、
	// 有効期限付きの URL を返します。失敗時は domain.ErrDownstream を返します
	CreateLivenessLink(ctx context.Context, externalPlayerID string) (string, error)
}

// NotifyPort はエンドユーザー向けメッセージングサービスへのポートです
type NotifyPort interface {
	// SendVerificationMessage は検証リンクを含む案内メッセージを
	// 指定プレイヤーにアプリ内通知として送信します
	// 失敗時は domain.ErrDownstream を返します
	SendVerificationMessage(ctx context.Context, externalPlayerID, link string) error
}
