package service

// ボタンのアクションID定義
const (
	// ActionSendLivenessYes は「Yes」ボタンのアクションID
	ActionSendLivenessYes = "send_liveness_yes"

	// ActionSendLivenessNo は「No」ボタンのアクションID
	ActionSendLivenessNo = "send_liveness_no"

	// DeclineValue は「No」ボタンの value に設定される番兵値
	// （元テキストは Yes ボタン側にのみ保持されます）
	DeclineValue = "no"
)

// MessageEvent はSlackチャンネルへのメッセージ投稿イベントを表します
type MessageEvent struct {
	// ChannelID はメッセージが投稿されたチャンネルのID
	ChannelID string

	// MessageTS はメッセージのタイムスタンプ（スレッドアンカーに使用）
	MessageTS string

	// Text はメッセージ本文（external_player_id の抽出元）
	Text string

	// SubType はシステムメッセージの種別（"message_changed" など、通常は空）
	SubType string
}

// InteractionEvent は確認プロンプトのボタンクリックを表します
type InteractionEvent struct {
	// ActionID は押されたボタンのアクションID
	ActionID string

	// Value はボタンに埋め込まれていた不透明ペイロード
	// Yes ボタンの場合は元メッセージの生テキストそのもの
	Value string

	// ChannelID はインタラクションが発生したチャンネルのID
	ChannelID string

	// MessageTS は確認プロンプトメッセージのタイムスタンプ（返信先スレッド）
	MessageTS string
}
