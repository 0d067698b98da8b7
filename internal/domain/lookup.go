package domain

import "strings"

// Lean is the editorial lean of a publisher.
type Lean string

const (
	LeanLeft   Lean = "Left"
	LeanCenter Lean = "Center"
	LeanRight  Lean = "Right"
)

// SourceInfo describes a publisher for display and telemetry.
type SourceInfo struct {
	Domain      string
	DisplayName string
	Lean        Lean
	Reliability float64
}

var sourceTable = map[string]SourceInfo{
	"reuters.com":        {DisplayName: "Reuters", Lean: LeanCenter, Reliability: 0.9},
	"ap.org":             {DisplayName: "AP", Lean: LeanCenter, Reliability: 0.9},
	"bbc.com":            {DisplayName: "BBC", Lean: LeanCenter, Reliability: 0.8},
	"cnn.com":            {DisplayName: "CNN", Lean: LeanLeft, Reliability: 0.7},
	"foxnews.com":        {DisplayName: "Fox News", Lean: LeanRight, Reliability: 0.7},
	"msnbc.com":          {DisplayName: "MSNBC", Lean: LeanLeft, Reliability: 0.7},
	"nytimes.com":        {DisplayName: "The New York Times", Lean: LeanLeft, Reliability: 0.8},
	"wsj.com":            {DisplayName: "The Wall Street Journal", Lean: LeanRight, Reliability: 0.8},
	"washingtonpost.com": {DisplayName: "The Washington Post", Lean: LeanLeft, Reliability: 0.8},
	"usatoday.com":       {DisplayName: "USA Today", Lean: LeanCenter, Reliability: 0.7},
	"nbcnews.com":        {DisplayName: "NBC News", Lean: LeanLeft, Reliability: 0.7},
	"abcnews.go.com":     {DisplayName: "ABC News", Lean: LeanCenter, Reliability: 0.7},
	"cbsnews.com":        {DisplayName: "CBS News", Lean: LeanCenter, Reliability: 0.7},
	"npr.org":            {DisplayName: "NPR", Lean: LeanLeft, Reliability: 0.8},
	"pbs.org":            {DisplayName: "PBS", Lean: LeanCenter, Reliability: 0.8},
	"bloomberg.com":      {DisplayName: "Bloomberg", Lean: LeanCenter, Reliability: 0.8},
	"forbes.com":         {DisplayName: "Forbes", Lean: LeanRight, Reliability: 0.7},
	"techcrunch.com":     {DisplayName: "TechCrunch", Lean: LeanCenter, Reliability: 0.7},
	"theverge.com":       {DisplayName: "The Verge", Lean: LeanCenter, Reliability: 0.7},
	"arstechnica.com":    {DisplayName: "Ars Technica", Lean: LeanCenter, Reliability: 0.8},
	"theguardian.com":    {DisplayName: "The Guardian", Lean: LeanLeft, Reliability: 0.8},
}

// LookupSource resolves a publisher domain; unknown keys come back as-is, Center, 0.5.
func LookupSource(key string) SourceInfo {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(key)), "www.")
	if info, ok := sourceTable[normalized]; ok {
		info.Domain = normalized
		return info
	}
	return SourceInfo{Domain: key, DisplayName: key, Lean: LeanCenter, Reliability: 0.5}
}

var categoryNames = map[string]string{
	"geopolitics":    "Geopolitics",
	"politics":       "Politics",
	"economy":        "Economy",
	"climate":        "Climate",
	"healthcare":     "Healthcare",
	"technology":     "Technology",
	"science":        "Science",
	"social_issues":  "Social Issues",
	"foreign_policy": "Foreign Policy",
	"education":      "Education",
	"religion":       "Religion",
}

// CategoryDisplayName returns the human name of a category key, or the key itself.
func CategoryDisplayName(key string) string {
	if name, ok := categoryNames[key]; ok {
		return name
	}
	return key
}
