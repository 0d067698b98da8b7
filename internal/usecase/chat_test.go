package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
	"BiasFeed/internal/state"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func TestChatSendAppendsUserAndReply(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	var prompts []ports.ChatPrompt
	chat := NewChat(ChatDeps{
		Generator: generatorFunc(func(_ context.Context, p ports.ChatPrompt) (domain.ChatMessage, error) {
			prompts = append(prompts, p)
			return domain.ChatMessage{Content: "reply to " + p.Message}, nil
		}),
		Now:   func() time.Time { return now },
		NewID: sequentialIDs(),
	})

	st, err := chat.Send(context.Background(), ChatTurn{ConversationID: "story-1", Topic: "Ukraine", Message: " hello ", Bias: 0.8})
	require.NoError(t, err)
	require.Len(t, st.Items, 2)
	assert.Equal(t, domain.RoleUser, st.Items[0].Role)
	assert.Equal(t, "hello", st.Items[0].Content)
	assert.Equal(t, domain.RoleAssistant, st.Items[1].Role)
	assert.Equal(t, "reply to hello", st.Items[1].Content)
	assert.Equal(t, "m2", st.Items[1].ID)
	assert.Equal(t, "story-1", st.Items[1].ConversationID)
	assert.Equal(t, now, st.Items[1].CreatedAt)

	_, err = chat.Send(context.Background(), ChatTurn{ConversationID: "story-1", Message: "again"})
	require.NoError(t, err)

	require.Len(t, prompts, 2)
	assert.Empty(t, prompts[0].History)
	assert.Equal(t, 0.8, prompts[0].Bias)
	assert.Equal(t, "Ukraine", prompts[0].Topic)
	assert.Len(t, prompts[1].History, 2, "history excludes the message being answered")
	assert.Len(t, chat.History("story-1").Items, 4)
}

func TestChatFailureKeepsUserMessage(t *testing.T) {
	t.Parallel()

	rec := &logging.Recorder{}
	boom := errors.New("rate limited")
	chat := NewChat(ChatDeps{
		Generator: generatorFunc(func(context.Context, ports.ChatPrompt) (domain.ChatMessage, error) {
			return domain.ChatMessage{}, boom
		}),
		Sink: rec,
	})

	st, err := chat.Send(context.Background(), ChatTurn{ConversationID: "c", Message: "why?"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, state.StatusFailed, st.Status())
	require.Len(t, st.Items, 1)
	assert.Equal(t, "why?", st.Items[0].Content)
	assert.Contains(t, rec.Names(), "chat.reply_failed")

	st = chat.ClearError("c")
	assert.Equal(t, state.StatusReady, st.Status())
	assert.Len(t, st.Items, 1)
}

func TestChatValidation(t *testing.T) {
	t.Parallel()

	chat := NewChat(ChatDeps{})

	_, err := chat.Send(context.Background(), ChatTurn{Message: "hi"})
	assert.True(t, domain.IsValidation(err))

	st, err := chat.Send(context.Background(), ChatTurn{ConversationID: "c", Message: "  "})
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, st.Items)
}

func TestChatWithoutGenerator(t *testing.T) {
	t.Parallel()

	st, err := NewChat(ChatDeps{}).Send(context.Background(), ChatTurn{ConversationID: "c", Message: "hi"})
	assert.Error(t, err)
	assert.Len(t, st.Items, 1)
}

func TestChatConversationsAreIndependent(t *testing.T) {
	t.Parallel()

	chat := NewChat(ChatDeps{Generator: generatorFunc(func(context.Context, ports.ChatPrompt) (domain.ChatMessage, error) {
		return domain.ChatMessage{Content: "ok"}, nil
	})})

	_, err := chat.Send(context.Background(), ChatTurn{ConversationID: "a", Message: "one"})
	require.NoError(t, err)

	assert.Len(t, chat.History("a").Items, 2)
	assert.Empty(t, chat.History("b").Items)
	assert.Equal(t, state.StatusReady, chat.History("unknown").Status())

	st := chat.Clear("a")
	assert.Empty(t, st.Items)
	assert.Empty(t, chat.History("a").Items)
}
