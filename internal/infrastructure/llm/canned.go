// Package llm generates assistant replies for story conversations.
package llm

import (
	"context"
	"time"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

// CannedGenerator answers without a model. It is used when no API key is set.
type CannedGenerator struct{}

var _ ports.ReplyGenerator = CannedGenerator{}

// Reply echoes the user message in a fixed acknowledgement.
func (CannedGenerator) Reply(ctx context.Context, prompt ports.ChatPrompt) (domain.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatMessage{}, err
	}
	return domain.ChatMessage{
		ConversationID: prompt.ConversationID,
		Role:           domain.RoleAssistant,
		Content:        "I understand you're asking about this story. This is a temporary response while the AI features are being updated. Your message was: " + prompt.Message,
		SourceContext:  "Mock response",
		CreatedAt:      time.Now().UTC(),
	}, nil
}
