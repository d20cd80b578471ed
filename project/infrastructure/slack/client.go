package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"liveness-bot/project/service"
)

// 確認プロンプトの文言定義
const (
	promptText    = "Send liveness?"
	promptSection = "*Send liveness?*"
	promptBlockID = "liveness_confirm"
)

// Client は service.SlackPort の Slack SDK 実装です
// 単一ワークスペースの Bot トークンで動作します
type Client struct {
	api *slack.Client
}

// NewClient は Slack クライアントを初期化します
func NewClient(botToken string) *Client {
	return &Client{
		api: slack.New(botToken),
	}
}

// PostConfirmPrompt は元メッセージのスレッドに Yes/No ボタン付きの
// 確認プロンプトを投稿します
// 元メッセージの生テキストは Yes ボタンの value にそのまま埋め込まれ、
// 確認時にボタンペイロードとして往復します（サーバー側には保持しません）
func (c *Client) PostConfirmPrompt(ctx context.Context, channelID, messageTS, rawText string) error {
	yesBtn := slack.NewButtonBlockElement(
		service.ActionSendLivenessYes,
		rawText,
		slack.NewTextBlockObject(slack.PlainTextType, "Yes", false, false),
	)
	noBtn := slack.NewButtonBlockElement(
		service.ActionSendLivenessNo,
		service.DeclineValue,
		slack.NewTextBlockObject(slack.PlainTextType, "No", false, false),
	)

	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, promptSection, false, false),
			nil,
			nil,
		),
		slack.NewActionBlock(promptBlockID, yesBtn, noBtn),
	}

	_, _, err := c.api.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(promptText, false),
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionTS(messageTS),
	)
	if err != nil {
		return fmt.Errorf("slack: 確認プロンプト投稿失敗 (channel=%s, ts=%s): %w", channelID, messageTS, err)
	}

	return nil
}

// PostThreadMessage はスレッドにメッセージを投稿します
func (c *Client) PostThreadMessage(ctx context.Context, channelID, messageTS, text string) error {
	_, _, err := c.api.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(messageTS),
	)
	if err != nil {
		return fmt.Errorf("slack: スレッドメッセージ投稿失敗 (channel=%s, ts=%s): %w", channelID, messageTS, err)
	}

	return nil
}
