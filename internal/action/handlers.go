package action

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
)

// ErrCredentialsMissing means a provider has no credentials configured.
var ErrCredentialsMissing = errors.New("credentials not configured")

// HandlerError is a failure of one simulated action. Provider is set when a
// category fans out to several providers (posting).
type HandlerError struct {
	Category Category
	Provider string
	Err      error
}

func (e *HandlerError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s posting failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Category, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Credentials holds the social provider secrets the post handler needs.
type Credentials struct {
	XAPIKey         string
	XAPISecret      string
	XAccessToken    string
	XAccessSecret   string
	BlueskyHandle   string
	BlueskyPassword string
}

// XConfigured reports whether posting to X is possible.
func (c Credentials) XConfigured() bool {
	return c.XAPIKey != "" && c.XAccessToken != ""
}

// BlueskyConfigured reports whether posting to Bluesky is possible.
func (c Credentials) BlueskyConfigured() bool {
	return c.BlueskyPassword != ""
}

// Outcome is what a handler produced for one title.
type Outcome struct {
	Descriptions []string
	Errors       []error
}

// Handler simulates one category of action for a raw title.
type Handler func(title string) Outcome

func describe(format string, args ...any) Outcome {
	return Outcome{Descriptions: []string{fmt.Sprintf(format, args...)}}
}

// simulated builds a handler that always succeeds, formatting the payload
// into format.
func simulated(c Category, format string) Handler {
	return func(title string) Outcome {
		return describe(format, Payload(c, title))
	}
}

func defaultHandlers(creds Credentials) [numCategories]Handler {
	return [numCategories]Handler{
		CategoryPost:      postHandler(creds),
		CategoryDeploy:    simulated(CategoryDeploy, "🚀 Deployed \"%s\":\n\nLive at production URL. Monitor active."),
		CategoryBlog:      simulated(CategoryBlog, "✍️ Blog post drafted: \"%s\"\n\nSEO-optimized, 800 words, includes CTA. Ready for review."),
		CategoryFix:       simulated(CategoryFix, "🐛 Fixed \"%s\":\n\nRoot cause identified, patch applied, tests passing."),
		CategoryResearch:  simulated(CategoryResearch, "🔍 Research complete on \"%s\":\n\nFound 5 relevant sources. Key insights synthesized and ready for review."),
		CategorySchedule:  simulated(CategorySchedule, "⏰ Scheduled: \"%s\"\n\nCron job created. Will execute at specified intervals."),
		CategoryIntegrate: simulated(CategoryIntegrate, "🔗 Integration complete: \"%s\"\n\nAPI connected, authentication configured, endpoints tested."),
		CategoryAnalyze:   simulated(CategoryAnalyze, "📊 Analysis complete: \"%s\"\n\nKey metrics identified, trends mapped, recommendations provided."),
		CategoryBuild:     simulated(CategoryBuild, "💻 Built \"%s\":\n\nCode generated, tested, and deployed. Check repository for details."),
		CategoryCreate:    simulated(CategoryCreate, "🎨 Created \"%s\":\n\nFirst draft produced and attached for review."),
		CategoryDefault: func(title string) Outcome {
			return describe("✅ Task completed: \"%s\"\n\nExecuted successfully. Results available for review.", strings.TrimSpace(title))
		},
	}
}

// postHandler posts to each provider independently; a missing credential
// fails that provider only.
func postHandler(creds Credentials) Handler {
	return func(title string) Outcome {
		post := SocialPost(Payload(CategoryPost, title))
		var out Outcome

		if creds.XConfigured() {
			out.Descriptions = append(out.Descriptions, fmt.Sprintf("📤 Posted to X: \"%s\"", preview(post)))
		} else {
			out.Errors = append(out.Errors, &HandlerError{Category: CategoryPost, Provider: "X", Err: ErrCredentialsMissing})
		}

		if creds.BlueskyConfigured() {
			out.Descriptions = append(out.Descriptions, fmt.Sprintf("🦋 Posted to Bluesky as %s: \"%s\"", creds.BlueskyHandle, preview(post)))
		} else {
			out.Errors = append(out.Errors, &HandlerError{Category: CategoryPost, Provider: "Bluesky", Err: ErrCredentialsMissing})
		}
		return out
	}
}

var postEmojis = []string{"🚀", "💡", "🎯", "⚡", "🔥", "✨"}

// SocialPost turns a payload into post copy with an emoji and hashtags. The
// emoji is picked from a hash of the content so the same payload always
// produces the same post.
func SocialPost(content string) string {
	content = strings.TrimSpace(content)
	lower := strings.ToLower(content)

	hashtags := "#IndieHacker #BuildInPublic"
	if strings.Contains(lower, "ai") {
		hashtags += " #AI"
	}
	if strings.Contains(lower, "saas") {
		hashtags += " #SaaS"
	}
	if strings.Contains(lower, "startup") {
		hashtags += " #Startup"
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	emoji := postEmojis[h.Sum32()%uint32(len(postEmojis))]

	return emoji + " " + content + "\n\n" + hashtags
}

const previewLen = 100

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
