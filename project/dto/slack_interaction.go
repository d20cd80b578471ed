package dto

// SlackInteractionRequest は Slack インタラクティブコンポーネント
// （ボタンクリックなど）のコールバックペイロードを表します
// リクエストの form フィールド "payload" に JSON として格納されています
type SlackInteractionRequest struct {
	Type        string                   `json:"type"` // "block_actions"
	User        SlackInteractionUser     `json:"user"`
	Channel     SlackInteractionChannel  `json:"channel"`
	Message     SlackInteractionMessage  `json:"message"`
	Actions     []SlackInteractionAction `json:"actions"`
	ResponseURL string                   `json:"response_url"`
	TriggerID   string                   `json:"trigger_id"`
}

// SlackInteractionUser はボタンを押したユーザーを表します
type SlackInteractionUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SlackInteractionChannel はインタラクションが発生したチャンネルを表します
type SlackInteractionChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SlackInteractionMessage はボタンが取り付けられていたメッセージ
// （確認プロンプト）を表します。Timestamp をスレッドアンカーとして使用します
type SlackInteractionMessage struct {
	Timestamp string `json:"ts"`
	ThreadTs  string `json:"thread_ts,omitempty"`
	Text      string `json:"text,omitempty"`
}

// SlackInteractionAction は実行されたアクション（ボタン）を表します
type SlackInteractionAction struct {
	Type     string `json:"type"` // "button"
	ActionID string `json:"action_id"`
	BlockID  string `json:"block_id"`
	Value    string `json:"value"` // ボタンに埋め込まれた不透明ペイロード
}
