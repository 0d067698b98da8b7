// Package server exposes one session's controllers as a JSON HTTP API.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"BiasFeed/internal/belief"
	"BiasFeed/internal/domain"
	"BiasFeed/internal/state"
	"BiasFeed/internal/usecase"
)

// Deps are the controllers served over HTTP.
type Deps struct {
	Articles *usecase.ArticleFeed
	Stories  *usecase.StoryFeed
	Chat     *usecase.Chat
	Profile  *belief.Store
	Logger   *slog.Logger
}

// Server holds the handlers.
type Server struct {
	articles *usecase.ArticleFeed
	stories  *usecase.StoryFeed
	chat     *usecase.Chat
	profile  *belief.Store
	logger   *slog.Logger
}

// New builds a server over deps.
func New(deps Deps) *Server {
	return &Server{
		articles: deps.Articles,
		stories:  deps.Stories,
		chat:     deps.Chat,
		profile:  deps.Profile,
		logger:   deps.Logger,
	}
}

// SetupRouter registers every route on a fresh engine.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.Health)

	r.GET("/stories", s.ListStories)
	r.POST("/stories/refresh", s.RefreshStories)
	r.POST("/stories/more", s.MoreStories)
	r.POST("/stories/filter", s.FilterStories)

	r.POST("/search", s.Search)
	r.POST("/aggregate", s.Aggregate)

	r.GET("/profile", s.GetProfile)
	r.PUT("/profile/issues", s.UpdateIssue)
	r.DELETE("/profile/issues/:id", s.ClearIssue)
	r.POST("/profile/beliefs", s.AddBeliefs)
	r.GET("/profile/analysis", s.AnalyzeBeliefs)

	r.POST("/chat/:id", s.SendMessage)
	r.GET("/chat/:id", s.ChatHistory)

	r.GET("/templates", s.Templates)

	return r
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type biasRequest struct {
	Bias *float64 `json:"bias"`
}

func (b biasRequest) value(fallback float64) float64 {
	if b.Bias == nil {
		return fallback
	}
	return domain.NormalizeBias(*b.Bias)
}

func (s *Server) storiesBody(st state.State[domain.Story]) gin.H {
	return gin.H{
		"state":   viewState(st, storyViewer(st.CurrentBias)),
		"page":    s.stories.Page(),
		"hasMore": s.stories.HasMore(),
	}
}

// ListStories returns the current story list without fetching.
func (s *Server) ListStories(c *gin.Context) {
	c.JSON(http.StatusOK, s.storiesBody(s.stories.State()))
}

// RefreshStories reloads page one, optionally with a new bias.
func (s *Server) RefreshStories(c *gin.Context) {
	var req biasRequest
	if !s.bindOptional(c, &req) {
		return
	}
	if req.Bias != nil {
		s.stories.SetBias(*req.Bias)
	}
	st, err := s.stories.Refresh(c.Request.Context())
	s.respond(c, err, s.storiesBody(st))
}

// MoreStories appends the next page.
func (s *Server) MoreStories(c *gin.Context) {
	st, err := s.stories.LoadMore(c.Request.Context())
	s.respond(c, err, s.storiesBody(st))
}

type filterRequest struct {
	Topics []string `json:"topics"`
}

// FilterStories replaces the list with stories in the given topics.
func (s *Server) FilterStories(c *gin.Context) {
	var req filterRequest
	if !s.bind(c, &req) {
		return
	}
	st, err := s.stories.FilterByCategory(c.Request.Context(), req.Topics)
	s.respond(c, err, s.storiesBody(st))
}

type searchRequest struct {
	biasRequest
	Query string `json:"query"`
}

func (s *Server) articlesBody(st state.State[domain.Article]) gin.H {
	return gin.H{
		"state":   viewState(st, viewArticle),
		"summary": viewSummary(s.articles.Summary()),
	}
}

// Search replaces the article list with search results.
func (s *Server) Search(c *gin.Context) {
	var req searchRequest
	if !s.bind(c, &req) {
		return
	}
	st, err := s.articles.Search(c.Request.Context(), req.Query, req.value(s.articles.State().CurrentBias))
	s.respond(c, err, s.articlesBody(st))
}

type aggregateRequest struct {
	biasRequest
	Categories []string `json:"categories"`
}

// Aggregate replaces the article list with articles for the categories.
func (s *Server) Aggregate(c *gin.Context) {
	var req aggregateRequest
	if !s.bind(c, &req) {
		return
	}
	st, err := s.articles.AggregateByCategories(c.Request.Context(), req.Categories, req.value(s.articles.State().CurrentBias))
	s.respond(c, err, s.articlesBody(st))
}

// GetProfile returns the profile with its completion percentage.
func (s *Server) GetProfile(c *gin.Context) {
	profile, ok := s.profile.Profile()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile is not initialized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":    profile,
		"completion": s.profile.CompletionPercentage(),
		"answered":   len(s.profile.IssuesWithViews()),
	})
}

// UpdateIssue records a view and persists the profile.
func (s *Server) UpdateIssue(c *gin.Context) {
	var view domain.IssueView
	if !s.bind(c, &view) {
		return
	}
	if !s.profile.UpdateIssueView(c.Request.Context(), view) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown issue or uninitialized profile"})
		return
	}
	s.saveProfile(c)
}

// ClearIssue resets one issue's view.
func (s *Server) ClearIssue(c *gin.Context) {
	if !s.profile.ClearIssueView(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown issue or uninitialized profile"})
		return
	}
	s.saveProfile(c)
}

type beliefRequest struct {
	Beliefs []struct {
		Category string  `json:"category"`
		Text     string  `json:"text"`
		Strength float64 `json:"strength"`
		Origin   string  `json:"source"`
	} `json:"beliefs"`
}

// AddBeliefs merges statements into the fingerprint.
func (s *Server) AddBeliefs(c *gin.Context) {
	var req beliefRequest
	if !s.bind(c, &req) {
		return
	}
	beliefs := make([]domain.BeliefStatement, len(req.Beliefs))
	for i, b := range req.Beliefs {
		beliefs[i] = domain.BeliefStatement{Category: b.Category, Text: b.Text, Strength: b.Strength, Origin: b.Origin}
	}
	if err := s.profile.AddBeliefs(c.Request.Context(), beliefs); err != nil {
		s.fail(c, err, nil)
		return
	}
	s.AnalyzeBeliefs(c)
}

// AnalyzeBeliefs reports fingerprint coverage.
func (s *Server) AnalyzeBeliefs(c *gin.Context) {
	analysis, err := s.profile.Analyze()
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":               analysis.UserID,
		"totalBeliefs":         analysis.TotalBeliefs,
		"categories":           nonNil(analysis.Categories),
		"categoryDistribution": analysis.CategoryDistribution,
		"categoryStrengths":    analysis.CategoryStrengths,
		"strongestCategory":    analysis.StrongestCategory,
		"suggestedCategories":  nonNil(analysis.SuggestedCategories),
	})
}

type chatRequest struct {
	biasRequest
	Message string `json:"message"`
	Topic   string `json:"topic"`
}

// SendMessage appends a user message and the generated reply.
func (s *Server) SendMessage(c *gin.Context) {
	var req chatRequest
	if !s.bind(c, &req) {
		return
	}
	st, err := s.chat.Send(c.Request.Context(), usecase.ChatTurn{
		ConversationID: c.Param("id"),
		Topic:          req.Topic,
		Message:        req.Message,
		Bias:           req.value(domain.NeutralBias),
	})
	s.respond(c, err, gin.H{"state": viewState(st, viewMessage)})
}

// ChatHistory returns a conversation.
func (s *Server) ChatHistory(c *gin.Context) {
	st := s.chat.History(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"state": viewState(st, viewMessage)})
}

// Templates lists belief templates, optionally filtered by ?category=.
func (s *Server) Templates(c *gin.Context) {
	templates := belief.Templates(c.QueryArray("category")...)
	out := make([]gin.H, len(templates))
	for i, t := range templates {
		out[i] = gin.H{"category": t.Category, "examples": nonNil(t.Examples)}
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

func (s *Server) saveProfile(c *gin.Context) {
	if err := s.profile.Save(c.Request.Context()); err != nil {
		s.fail(c, err, nil)
		return
	}
	s.GetProfile(c)
}

func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return false
	}
	return true
}

// bindOptional accepts an empty body.
func (s *Server) bindOptional(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return s.bind(c, v)
}

func (s *Server) respond(c *gin.Context, err error, body gin.H) {
	if err != nil {
		s.fail(c, err, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) fail(c *gin.Context, err error, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["error"] = err.Error()

	code := statusFor(err)
	if code >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Warn("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(code, body)
}

func statusFor(err error) int {
	var (
		srcErr   *domain.SourceError
		scoreErr *domain.ScoringError
	)
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, state.ErrSuperseded), errors.Is(err, state.ErrLoading):
		return http.StatusConflict
	case errors.As(err, &srcErr), errors.As(err, &scoreErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
