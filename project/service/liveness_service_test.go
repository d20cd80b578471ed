package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveness-bot/project/domain"
	"liveness-bot/project/infrastructure/config"
)

// recorder は各ポートの呼び出し順を記録する共有ログです
type recorder struct {
	sequence []string
}

func (r *recorder) add(name string) {
	r.sequence = append(r.sequence, name)
}

type fakeSlackPort struct {
	rec       *recorder
	prompts   []string // PostConfirmPrompt に渡された rawText
	replies   []string // PostThreadMessage に渡された text
	promptErr error
	replyErr  error
}

func (f *fakeSlackPort) PostConfirmPrompt(ctx context.Context, channelID, messageTS, rawText string) error {
	f.rec.add("prompt")
	f.prompts = append(f.prompts, rawText)
	return f.promptErr
}

func (f *fakeSlackPort) PostThreadMessage(ctx context.Context, channelID, messageTS, text string) error {
	f.rec.add("reply")
	f.replies = append(f.replies, text)
	return f.replyErr
}

type fakeVerificationPort struct {
	rec     *recorder
	players []string
	link    string
	err     error
}

func (f *fakeVerificationPort) CreateLivenessLink(ctx context.Context, externalPlayerID string) (string, error) {
	f.rec.add("link")
	f.players = append(f.players, externalPlayerID)
	return f.link, f.err
}

type fakeNotifyPort struct {
	rec     *recorder
	players []string
	links   []string
	err     error
}

func (f *fakeNotifyPort) SendVerificationMessage(ctx context.Context, externalPlayerID, link string) error {
	f.rec.add("notify")
	f.players = append(f.players, externalPlayerID)
	f.links = append(f.links, link)
	return f.err
}

const testChannelID = "C0TARGET"

func newTestService() (LivenessService, *recorder, *fakeSlackPort, *fakeVerificationPort, *fakeNotifyPort) {
	rec := &recorder{}
	sp := &fakeSlackPort{rec: rec}
	vp := &fakeVerificationPort{rec: rec, link: "https://verify.example/session/1"}
	np := &fakeNotifyPort{rec: rec}
	cfg := &config.Config{TargetChannelID: testChannelID}
	return NewLivenessService(cfg, sp, vp, np), rec, sp, vp, np
}

func TestOnMessage_PostsPromptWithRawText(t *testing.T) {
	ls, rec, sp, _, _ := newTestService()

	rawText := `new ticket {"external_player_id": "abc123"}`
	err := ls.OnMessage(context.Background(), &MessageEvent{
		ChannelID: testChannelID,
		MessageTS: "111.222",
		Text:      rawText,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"prompt"}, rec.sequence)
	// Yes ボタンには生テキストがそのまま埋め込まれる
	require.Len(t, sp.prompts, 1)
	assert.Equal(t, rawText, sp.prompts[0])
}

func TestOnMessage_IgnoresEmptyText(t *testing.T) {
	ls, rec, _, _, _ := newTestService()

	err := ls.OnMessage(context.Background(), &MessageEvent{
		ChannelID: testChannelID,
		MessageTS: "111.222",
		Text:      "",
	})

	require.NoError(t, err)
	assert.Empty(t, rec.sequence)
}

func TestOnMessage_IgnoresOtherChannels(t *testing.T) {
	ls, rec, _, _, _ := newTestService()

	err := ls.OnMessage(context.Background(), &MessageEvent{
		ChannelID: "C0OTHER",
		MessageTS: "111.222",
		Text:      "hello",
	})

	require.NoError(t, err)
	assert.Empty(t, rec.sequence)
}

func TestOnMessage_IgnoresSystemSubTypes(t *testing.T) {
	subTypes := []string{"message_changed", "message_deleted", "channel_join", "thread_broadcast"}

	for _, st := range subTypes {
		t.Run(st, func(t *testing.T) {
			ls, rec, _, _, _ := newTestService()

			err := ls.OnMessage(context.Background(), &MessageEvent{
				ChannelID: testChannelID,
				MessageTS: "111.222",
				Text:      "hello",
				SubType:   st,
			})

			require.NoError(t, err)
			assert.Empty(t, rec.sequence)
		})
	}
}

func TestOnMessage_PromptFailureIsReturned(t *testing.T) {
	ls, _, sp, _, _ := newTestService()
	sp.promptErr = fmt.Errorf("post failed")

	err := ls.OnMessage(context.Background(), &MessageEvent{
		ChannelID: testChannelID,
		MessageTS: "111.222",
		Text:      "hello",
	})

	require.Error(t, err)
}

func TestOnInteraction_Yes_SequencesExtractLinkNotifyReply(t *testing.T) {
	ls, rec, sp, vp, np := newTestService()

	err := ls.OnInteraction(context.Background(), &InteractionEvent{
		ActionID:  ActionSendLivenessYes,
		Value:     `{"external_player_id":"abc123"}`,
		ChannelID: testChannelID,
		MessageTS: "333.444",
	})

	require.NoError(t, err)
	// 抽出 → リンク発行 → 通知 → 完了返信 の順で厳密に実行される
	assert.Equal(t, []string{"link", "notify", "reply"}, rec.sequence)
	assert.Equal(t, []string{"abc123"}, vp.players)
	assert.Equal(t, []string{"abc123"}, np.players)
	assert.Equal(t, []string{"https://verify.example/session/1"}, np.links)
	require.Len(t, sp.replies, 1)
	assert.Equal(t, msgLivenessSent, sp.replies[0])
}

func TestOnInteraction_Yes_ExtractionFailurePostsOneReplyAndStops(t *testing.T) {
	ls, rec, sp, _, _ := newTestService()

	err := ls.OnInteraction(context.Background(), &InteractionEvent{
		ActionID:  ActionSendLivenessYes,
		Value:     "no identifier in here",
		ChannelID: testChannelID,
		MessageTS: "333.444",
	})

	require.NoError(t, err)
	// 失敗返信が 1 回だけ投稿され、下流呼び出しはゼロ
	assert.Equal(t, []string{"reply"}, rec.sequence)
	require.Len(t, sp.replies, 1)
	assert.Equal(t, msgExtractFailed, sp.replies[0])
}

func TestOnInteraction_Yes_LinkFailurePostsFailureReply(t *testing.T) {
	ls, rec, sp, vp, _ := newTestService()
	vp.err = fmt.Errorf("sumsub: リンク作成失敗 (status=500): %w", domain.ErrDownstream)

	err := ls.OnInteraction(context.Background(), &InteractionEvent{
		ActionID:  ActionSendLivenessYes,
		Value:     `{"external_player_id":"abc123"}`,
		ChannelID: testChannelID,
		MessageTS: "333.444",
	})

	// エラーは呼び出し元に伝播しつつ、ユーザーにも失敗が通知される
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDownstream))
	assert.Equal(t, []string{"link", "reply"}, rec.sequence)
	require.Len(t, sp.replies, 1)
	assert.Equal(t, msgDownstreamFailed, sp.replies[0])
}

func TestOnInteraction_Yes_NotifyFailurePostsFailureReply(t *testing.T) {
	ls, rec, sp, _, np := newTestService()
	np.err = fmt.Errorf("intercom: メッセージ送信が拒否されました (status=401): %w", domain.ErrDownstream)

	err := ls.OnInteraction(context.Background(), &InteractionEvent{
		ActionID:  ActionSendLivenessYes,
		Value:     `{"external_player_id":"abc123"}`,
		ChannelID: testChannelID,
		MessageTS: "333.444",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDownstream))
	assert.Equal(t, []string{"link", "notify", "reply"}, rec.sequence)
	require.Len(t, sp.replies, 1)
	assert.Equal(t, msgDownstreamFailed, sp.replies[0])
}

func TestOnInteraction_No_PostsOneNeutralReply(t *testing.T) {
	ls, rec, sp, _, _ := newTestService()

	err := ls.OnInteraction(context.Background(), &InteractionEvent{
		ActionID:  ActionSendLivenessNo,
		Value:     DeclineValue,
		ChannelID: testChannelID,
		MessageTS: "333.444",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"reply"}, rec.sequence)
	require.Len(t, sp.replies, 1)
	assert.Equal(t, msgDeclined, sp.replies[0])
}

func TestOnInteraction_UnknownActionIsIgnored(t *testing.T) {
	ls, rec, _, _, _ := newTestService()

	err := ls.OnInteraction(context.Background(), &InteractionEvent{
		ActionID:  "some_other_action",
		Value:     "whatever",
		ChannelID: testChannelID,
		MessageTS: "333.444",
	})

	require.NoError(t, err)
	assert.Empty(t, rec.sequence)
}
