package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BiasFeed/internal/config"
	"BiasFeed/internal/logging"
	"BiasFeed/internal/usecase"
)

func offlineConfig() config.Config {
	cfg, _ := config.Parse([]byte(`
storage:
  driver: memory
feed:
  chain: [mock]
  userId: tester
`))
	return cfg
}

func TestNewWiresOfflineApplication(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), offlineConfig(), logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Profile.Initialized())

	st, err := a.Articles.AggregateByCategories(context.Background(), []string{"geopolitics"}, 0.5)
	require.NoError(t, err)
	assert.Len(t, st.Items, 3)

	stories, err := a.Stories.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, stories.Items, 3)

	chat, err := a.Chat.Send(context.Background(), usecase.ChatTurn{ConversationID: "story-1", Message: "hi"})
	require.NoError(t, err)
	assert.Len(t, chat.Items, 2)
}

func TestNewKeepsZeroDefaultBias(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
storage:
  driver: memory
feed:
  chain: [mock]
  defaultBias: 0
`))
	require.NoError(t, err)
	require.Zero(t, cfg.Feed.Bias())

	a, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Zero(t, a.Articles.State().CurrentBias)
	assert.Zero(t, a.Stories.State().CurrentBias)

	stories, err := a.Stories.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stories.CurrentBias)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig()
	cfg.Feed.Chain = []string{"live", "nope"}
	_, err := New(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig()
	cfg.Storage.Driver = "postgres"
	_, err := New(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.Path = t.TempDir() + "/profiles.db"

	a, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer b.Close()
	p, ok := b.Profile.Profile()
	require.True(t, ok)
	assert.Equal(t, "tester", p.UserID)
}
