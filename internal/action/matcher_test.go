package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		title string
		want  []Category
	}{
		{"Fix the login page", []Category{CategoryFix}},
		{"Research competitor pricing", []Category{CategoryResearch}},
		{"Post about launching our new AI feature", []Category{CategoryPost}},
		{"Write a BLOG post on deploy pipelines", []Category{CategoryPost, CategoryDeploy, CategoryBlog}},
		{"Create build scripts", []Category{CategoryBuild, CategoryCreate}},
		{"Analyze churn and schedule a review", []Category{CategorySchedule, CategoryAnalyze}},
		{"Design product mockups", []Category{CategoryDefault}},
		{"  integrate stripe  ", []Category{CategoryIntegrate}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, err := Match(tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_Deterministic(t *testing.T) {
	title := "Post the blog, then deploy and fix whatever breaks"
	first, err := Match(title)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Match(title)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMatch_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := Match(title)
		assert.ErrorIs(t, err, ErrEmptyTitle)

		_, err = MatchFirst(title)
		assert.ErrorIs(t, err, ErrEmptyTitle)
	}
}

func TestMatchFirst(t *testing.T) {
	tests := []struct {
		title string
		want  Category
	}{
		{"Write a blog post on deploy pipelines", CategoryPost},
		{"Deploy the blog", CategoryDeploy},
		{"Create build scripts", CategoryBuild},
		{"Reach 1000 followers", CategoryDefault},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, err := MatchFirst(tt.title)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayload(t *testing.T) {
	tests := []struct {
		category Category
		title    string
		want     string
	}{
		{CategoryFix, "Fix the login bug", "the login bug"},
		{CategoryFix, "fix: checkout crash", "checkout crash"},
		{CategoryResearch, "Research competitor pricing", "competitor pricing"},
		{CategoryResearch, "Look up pricing pages", "pricing pages"},
		{CategoryPost, "Post about launching our new AI feature", "launching our new AI feature"},
		{CategoryPost, "Post to X about the launch", "the launch"},
		{CategoryPost, "Post xylophone covers", "xylophone covers"},
		{CategoryBlog, "Write blog post about pricing", "pricing"},
		{CategoryDeploy, "Deploy to production", "production"},
		{CategoryIntegrate, "Add API for Stripe", "for Stripe"},
		{CategorySchedule, "Schedule 35 posts/week", "35 posts/week"},
		{CategoryCreate, "New: landing page", "landing page"},
		{CategoryBuild, "Build", "Build"},
		{CategoryDefault, "  Reach 1000 followers ", "Reach 1000 followers"},
		// no leading phrase: title passes through untouched
		{CategoryFix, "Subscription display fix", "Subscription display fix"},
	}

	for _, tt := range tests {
		t.Run(tt.category.String()+"/"+tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Payload(tt.category, tt.title))
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(c.Keyword())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("launch")
	assert.Error(t, err)
}
