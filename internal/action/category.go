// Package action turns a free-text task title into simulated automated
// actions.
//
// A title is matched against a fixed keyword vocabulary (see Categories). Each
// matched category has a handler that strips the category's leading verb
// phrase from the title to recover a payload and describes what the
// simulated execution did. Nothing here talks to the network.
package action

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is one semantic action class.
type Category int

const (
	CategoryPost Category = iota
	CategoryDeploy
	CategoryBlog
	CategoryFix
	CategoryResearch
	CategorySchedule
	CategoryIntegrate
	CategoryAnalyze
	CategoryBuild
	CategoryCreate
	CategoryDefault
	numCategories
)

// Categories lists every category in matching priority order. Default is
// always last.
var Categories = []Category{
	CategoryPost,
	CategoryDeploy,
	CategoryBlog,
	CategoryFix,
	CategoryResearch,
	CategorySchedule,
	CategoryIntegrate,
	CategoryAnalyze,
	CategoryBuild,
	CategoryCreate,
	CategoryDefault,
}

var categoryKeywords = [numCategories]string{
	CategoryPost:      "post",
	CategoryDeploy:    "deploy",
	CategoryBlog:      "blog",
	CategoryFix:       "fix",
	CategoryResearch:  "research",
	CategorySchedule:  "schedule",
	CategoryIntegrate: "integrate",
	CategoryAnalyze:   "analyze",
	CategoryBuild:     "build",
	CategoryCreate:    "create",
	CategoryDefault:   "default",
}

// Keyword returns the lower-case trigger word for c, which is also its name.
func (c Category) Keyword() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeywords[c]
}

func (c Category) String() string { return c.Keyword() }

// ParseCategory looks a category up by keyword.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if categoryKeywords[c] == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category: %q", s)
}

// leadingPhrases holds, per category, the verb phrase stripped from the front
// of a title to recover its payload. Default has no phrase.
var leadingPhrases = [numCategories]*regexp.Regexp{
	CategoryPost:      regexp.MustCompile(`(?i)^(?:post\s+(?:to|on)|post|tweet|share)\s*:?\s+(?:(?:x|twitter|bluesky)\b\s*)?(?:about\s+)?`),
	CategoryDeploy:    regexp.MustCompile(`(?i)^(?:deploy(?:\s+to)?|launch|release)\s*:?\s+`),
	CategoryBlog:      regexp.MustCompile(`(?i)^(?:write|create|blog|article)\s*:?\s+(?:(?:blog\s+)?post\s+)?(?:about\s+)?`),
	CategoryFix:       regexp.MustCompile(`(?i)^(?:fix|bug|debug|repair|solve)\s*:?\s+`),
	CategoryResearch:  regexp.MustCompile(`(?i)^(?:research|analyze|check|look\s+up|find)\s*:?\s+`),
	CategorySchedule:  regexp.MustCompile(`(?i)^(?:schedule|set\s+up|cron|automate)\s*:?\s+`),
	CategoryIntegrate: regexp.MustCompile(`(?i)^(?:integrate|connect|add\s+api)\s*:?\s+`),
	CategoryAnalyze:   regexp.MustCompile(`(?i)^(?:analyze|analysis)\s*:?\s+`),
	CategoryBuild:     regexp.MustCompile(`(?i)^(?:build|make|coding)\s*:?\s+`),
	CategoryCreate:    regexp.MustCompile(`(?i)^(?:create|make|new)\s*:?\s+`),
}

// Payload strips c's leading verb phrase from title and trims the rest. If
// nothing is left the trimmed title itself is returned.
func Payload(c Category, title string) string {
	title = strings.TrimSpace(title)
	if c < 0 || c >= numCategories || leadingPhrases[c] == nil {
		return title
	}
	payload := strings.TrimSpace(leadingPhrases[c].ReplaceAllString(title, ""))
	if payload == "" {
		return title
	}
	return payload
}
