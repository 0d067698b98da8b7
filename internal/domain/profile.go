package domain

import "time"

// IssueView is a user's recorded position on one issue. Nil fields are "absent".
type IssueView struct {
	IssueID         string    `json:"issueId"`
	CategoryID      string    `json:"categoryId"`
	Title           string    `json:"title,omitempty"`
	StanceValue     *int      `json:"stanceValue,omitempty"`
	StanceLevel     *string   `json:"stanceLevel,omitempty"`
	ConfidenceLevel *int      `json:"confidenceLevel,omitempty"`
	InterestLevel   *int      `json:"interestLevel,omitempty"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// HasView reports whether a stance has been recorded.
func (v IssueView) HasView() bool {
	return v.StanceValue != nil
}

// Cleared returns the view with every value field reset, keeping identity.
func (v IssueView) Cleared(at time.Time) IssueView {
	return IssueView{
		IssueID:     v.IssueID,
		CategoryID:  v.CategoryID,
		Title:       v.Title,
		LastUpdated: at,
	}
}

// IssueCategory groups issues under one taxonomy heading.
type IssueCategory struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Issues []IssueView `json:"issues"`
}

// UserViewProfile holds every issue view of a user.
type UserViewProfile struct {
	UserID      string          `json:"userId"`
	Categories  []IssueCategory `json:"categories"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Clone deep-copies the profile so callers cannot mutate store state.
func (p UserViewProfile) Clone() UserViewProfile {
	out := p
	out.Categories = make([]IssueCategory, len(p.Categories))
	for i, cat := range p.Categories {
		issues := make([]IssueView, len(cat.Issues))
		for j, issue := range cat.Issues {
			issues[j] = issue.Clone()
		}
		cat.Issues = issues
		out.Categories[i] = cat
	}
	return out
}

// Clone deep-copies the optional fields.
func (v IssueView) Clone() IssueView {
	out := v
	out.StanceValue = copyPtr(v.StanceValue)
	out.StanceLevel = copyPtr(v.StanceLevel)
	out.ConfidenceLevel = copyPtr(v.ConfidenceLevel)
	out.InterestLevel = copyPtr(v.InterestLevel)
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// BeliefStatement is one belief held by the user.
type BeliefStatement struct {
	Category  string
	Text      string
	Strength  float64
	Origin    string
	Timestamp time.Time
}

// UserBeliefFingerprint is the set of beliefs that drives scoring context.
type UserBeliefFingerprint struct {
	UserID      string
	Beliefs     []BeliefStatement
	Categories  []string
	LastUpdated time.Time
}

// BeliefTemplate offers example statements for a category.
type BeliefTemplate struct {
	Category string
	Examples []string
}
