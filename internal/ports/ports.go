package ports

import (
	"context"
	"log/slog"
	"time"

	"BiasFeed/internal/domain"
)

// ContentProvider is one upstream content backend (live API, mock feed...).
type ContentProvider[T any] interface {
	Name() string
	Fetch(ctx context.Context, req domain.FetchRequest) ([]T, error)
}

// ArticleProvider fetches articles.
type ArticleProvider = ContentProvider[domain.Article]

// StoryProvider fetches stories.
type StoryProvider = ContentProvider[domain.Story]

// ContentSource is the single fetch interface controllers depend on.
type ContentSource[T any] interface {
	Fetch(ctx context.Context, req domain.FetchRequest) ([]T, error)
}

// Scorer classifies stance of content toward a belief.
// ScoreBatch returns results in request order.
type Scorer interface {
	Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error)
	ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) ([]domain.ScoreResult, error)
}

// ProfileRepository is the persistence collaborator for view profiles.
// LoadProfile returns nil without error when nothing is stored.
type ProfileRepository interface {
	LoadProfile(ctx context.Context, userID string) (*domain.UserViewProfile, error)
	SaveProfile(ctx context.Context, profile domain.UserViewProfile) error
}

// ChatPrompt is everything a reply generator sees for one turn.
type ChatPrompt struct {
	ConversationID string
	Topic          string
	History        []domain.ChatMessage
	Message        string
	Bias           float64
}

// ReplyGenerator produces the assistant side of a chat turn.
type ReplyGenerator interface {
	Reply(ctx context.Context, prompt ChatPrompt) (domain.ChatMessage, error)
}

// EventSink receives structured diagnostic events.
type EventSink interface {
	Record(ctx context.Context, event string, attrs ...slog.Attr)
}

// Scheduler drives a recurring job until stopped or ctx ends.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
