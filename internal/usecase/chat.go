package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/ports"
	"BiasFeed/internal/state"
)

// ChatDeps wires the conversation controller.
type ChatDeps struct {
	Generator ports.ReplyGenerator
	Logger    *slog.Logger
	Sink      ports.EventSink
	Now       func() time.Time
	NewID     func() string
}

// ChatTurn is one user message sent into a conversation.
type ChatTurn struct {
	ConversationID string
	Topic          string
	Message        string
	Bias           float64
}

// Chat keeps one append-only message list per conversation.
type Chat struct {
	generator ports.ReplyGenerator
	logger    *slog.Logger
	sink      ports.EventSink
	now       func() time.Time
	newID     func() string

	mu            sync.Mutex
	conversations map[string]*state.Machine[domain.ChatMessage]
}

// NewChat builds a controller with no conversations.
func NewChat(deps ChatDeps) *Chat {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := deps.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &Chat{
		generator:     deps.Generator,
		logger:        deps.Logger,
		sink:          logging.OrNop(deps.Sink),
		now:           now,
		newID:         newID,
		conversations: map[string]*state.Machine[domain.ChatMessage]{},
	}
}

// Send appends the user message right away, then appends the generated reply.
// A failed reply leaves the user message in place.
func (c *Chat) Send(ctx context.Context, turn ChatTurn) (state.State[domain.ChatMessage], error) {
	id := strings.TrimSpace(turn.ConversationID)
	if id == "" {
		return state.State[domain.ChatMessage]{}, &domain.ValidationError{Field: "conversationId", Reason: "must not be empty"}
	}
	text := strings.TrimSpace(turn.Message)
	if text == "" {
		return c.History(id), &domain.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	m := c.conversation(id)
	before := m.Snapshot().Items
	user := domain.ChatMessage{
		ID:             c.newID(),
		ConversationID: id,
		Role:           domain.RoleUser,
		Content:        text,
		CreatedAt:      c.now(),
	}
	m.Push(user)

	return m.Extend(ctx, func(ctx context.Context) ([]domain.ChatMessage, error) {
		if c.generator == nil {
			return nil, fmt.Errorf("reply generator is not configured")
		}
		reply, err := c.generator.Reply(ctx, ports.ChatPrompt{
			ConversationID: id,
			Topic:          turn.Topic,
			History:        before,
			Message:        text,
			Bias:           domain.NormalizeBias(turn.Bias),
		})
		if err != nil {
			c.sink.Record(ctx, "chat.reply_failed", slog.String("conversation", id), slog.String("error", err.Error()))
			return nil, fmt.Errorf("generate reply: %w", err)
		}
		if reply.ID == "" {
			reply.ID = c.newID()
		}
		if reply.CreatedAt.IsZero() {
			reply.CreatedAt = c.now()
		}
		reply.ConversationID = id
		reply.Role = domain.RoleAssistant
		c.debug("reply appended", "conversation", id, "chars", len(reply.Content))
		return []domain.ChatMessage{reply}, nil
	})
}

// History returns the conversation's state; unknown ids are empty and ready.
func (c *Chat) History(conversationID string) state.State[domain.ChatMessage] {
	c.mu.Lock()
	m, ok := c.conversations[conversationID]
	c.mu.Unlock()
	if !ok {
		return state.State[domain.ChatMessage]{Items: []domain.ChatMessage{}, CurrentBias: domain.NeutralBias}
	}
	return m.Snapshot()
}

// Clear drops every message of one conversation.
func (c *Chat) Clear(conversationID string) state.State[domain.ChatMessage] {
	return c.conversation(conversationID).Clear()
}

// ClearError leaves the failed state of one conversation.
func (c *Chat) ClearError(conversationID string) state.State[domain.ChatMessage] {
	return c.conversation(conversationID).ClearError()
}

func (c *Chat) conversation(id string) *state.Machine[domain.ChatMessage] {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.conversations[id]
	if !ok {
		m = state.New[domain.ChatMessage]("chat", domain.NeutralBias, c.sink)
		c.conversations[id] = m
	}
	return m
}

func (c *Chat) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
