package domain

import "time"

// TimelineChunk is one dated entry in a story's timeline.
type TimelineChunk struct {
	ID                string
	Timestamp         time.Time
	Content           string
	Sources           []string
	Confidence        float64
	HasContradictions bool
	Contradictions    []string
}

// Story groups coverage of one event from several sources.
type Story struct {
	ID               string
	EventKey         string
	Title            string
	SummaryNeutral   string
	SummaryModulated string
	Sources          []string
	Topics           []string
	Confidence       float64
	PublishedAt      time.Time
	UpdatedAt        time.Time
	Timeline         []TimelineChunk
}

// Key returns the identity used for deduplication.
func (s Story) Key() string {
	return s.ID
}

// Summary picks the modulated text for any non-neutral bias.
func (s Story) Summary(bias float64) string {
	if bias != NeutralBias && s.SummaryModulated != "" {
		return s.SummaryModulated
	}
	return s.SummaryNeutral
}

// ChatRole tells who authored a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a story conversation.
type ChatMessage struct {
	ID             string
	ConversationID string
	Role           ChatRole
	Content        string
	SourceContext  string
	CreatedAt      time.Time
}

// Key returns the identity used for deduplication.
func (m ChatMessage) Key() string {
	return m.ID
}
