package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/ports"
)

const defaultModel = openai.GPT4oMini

// OpenAIGenerator answers story questions through an OpenAI-compatible chat API.
type OpenAIGenerator struct {
	client       *openai.Client
	model        string
	systemPrompt string
	maxHistory   int
}

var _ ports.ReplyGenerator = (*OpenAIGenerator)(nil)

// OpenAIConfig configures the generator. BaseURL targets compatible gateways.
type OpenAIConfig struct {
	APIKey       string
	Model        string
	BaseURL      string
	SystemPrompt string
	MaxHistory   int
}

// NewOpenAIGenerator builds a generator from configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(config),
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		maxHistory:   maxHistory,
	}
}

// Reply sends the system prompt, the recent history and the new message.
func (g *OpenAIGenerator) Reply(ctx context.Context, prompt ports.ChatPrompt) (domain.ChatMessage, error) {
	if g == nil || g.client == nil {
		return domain.ChatMessage{}, fmt.Errorf("openai generator is nil")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: buildMessages(g.systemPrompt, prompt, g.maxHistory),
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ChatMessage{}, fmt.Errorf("chat completion: no response choices")
	}

	return domain.ChatMessage{
		ConversationID: prompt.ConversationID,
		Role:           domain.RoleAssistant,
		Content:        strings.TrimSpace(resp.Choices[0].Message.Content),
		SourceContext:  g.model,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func buildMessages(system string, prompt ports.ChatPrompt, maxHistory int) []openai.ChatCompletionMessage {
	msgs := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(system, prompt.Topic, prompt.Bias),
	}}

	history := prompt.History
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	return append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.Message,
	})
}

// systemPrompt tunes tone to the bias label so replies match the feed.
func systemPrompt(base, topic string, bias float64) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "You are a news assistant that explains a story using the coverage the user has been shown."
	}
	var b strings.Builder
	b.WriteString(base)
	if topic = strings.TrimSpace(topic); topic != "" {
		fmt.Fprintf(&b, " The story is: %s.", topic)
	}
	switch domain.LabelFor(bias) {
	case domain.LabelChallengeMe:
		b.WriteString(" Emphasize evidence and arguments that challenge the user's assumptions.")
	case domain.LabelQuestion:
		b.WriteString(" Stay balanced and point out open questions.")
	case domain.LabelSupport:
		b.WriteString(" Lead with evidence consistent with the user's views, then note counterpoints.")
	default:
		b.WriteString(" Present the strongest case for the user's views while staying factual.")
	}
	return b.String()
}
