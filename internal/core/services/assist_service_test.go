package services

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

func newAssistFixture(response string) (*assistService, *fakeGenerator, *fakePostRepo) {
	generator := &fakeGenerator{response: response}
	posts := newFakePostRepo()
	svc := NewAssistService(generator, posts, zap.NewNop()).(*assistService)
	return svc, generator, posts
}

func TestFormatPrompt(t *testing.T) {
	out := formatPrompt("Topic: {topic}, missing: {other}", map[string]string{"topic": "Go"})
	assert.Equal(t, "Topic: Go, missing: {other}", out)
}

func TestSafeParse_Stages(t *testing.T) {
	var v map[string]string

	assert.Equal(t, domain.ParsedDirect, safeParse(`{"a":"b"}`, &v))
	assert.Equal(t, "b", v["a"])

	fenced := "Here you go:\n```json\n{\"a\":\"c\"}\n```\nEnjoy!"
	assert.Equal(t, domain.ParsedFromFence, safeParse(fenced, &v))
	assert.Equal(t, "c", v["a"])

	assert.Equal(t, domain.FellBackToDefault, safeParse("not json at all", &v))
}

func TestDraft_TitleFromFirstHeading(t *testing.T) {
	svc, generator, _ := newAssistFixture("# Why Go Rocks\n\nBecause it compiles fast.")

	draft, err := svc.Draft(context.Background(), "go performance")
	require.NoError(t, err)
	assert.Equal(t, "Why Go Rocks", draft.Title)
	assert.Contains(t, draft.Markdown, "compiles fast")
	assert.Contains(t, generator.lastPrompt, "go performance")
}

func TestDraft_TitleFallsBackToTopic(t *testing.T) {
	svc, _, _ := newAssistFixture("No heading here, just prose.")

	draft, err := svc.Draft(context.Background(), "go performance")
	require.NoError(t, err)
	assert.Equal(t, "go performance", draft.Title)
}

func TestDraft_UpstreamFailure(t *testing.T) {
	svc, generator, _ := newAssistFixture("")
	generator.err = assert.AnError

	_, err := svc.Draft(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestSEOMetadata_ParsesDirectJSON(t *testing.T) {
	svc, _, _ := newAssistFixture(`{"title":"T","slug":"t-slug","description":"D","keywords":["go","web"]}`)

	meta, err := svc.SEOMetadata(context.Background(), "# T\ncontent", "T")
	require.NoError(t, err)
	assert.Equal(t, domain.ParsedDirect, meta.Outcome)
	assert.Equal(t, "t-slug", meta.Slug)
	assert.Equal(t, []string{"go", "web"}, meta.Keywords)
}

func TestSEOMetadata_ExtractsFromFence(t *testing.T) {
	svc, _, _ := newAssistFixture("Sure!\n```json\n{\"title\":\"T\",\"slug\":\"t-slug\",\"description\":\"D\",\"keywords\":[]}\n```")

	meta, err := svc.SEOMetadata(context.Background(), "# T\ncontent", "T")
	require.NoError(t, err)
	assert.Equal(t, domain.ParsedFromFence, meta.Outcome)
	assert.Equal(t, "t-slug", meta.Slug)
}

func TestSEOMetadata_DeterministicFallback(t *testing.T) {
	svc, _, _ := newAssistFixture("I'm sorry, I can't produce JSON today.")

	content := "# Hello, World! A Guide\nSome body text here that describes the post in detail."
	meta, err := svc.SEOMetadata(context.Background(), content, "ignored")
	require.NoError(t, err)

	assert.Equal(t, domain.FellBackToDefault, meta.Outcome)
	assert.Equal(t, "hello-world-a-guide", meta.Slug)
	assert.Equal(t, "Hello, World! A Guide", meta.Title)
	assert.Contains(t, meta.Description, "Some body text")
	assert.NotContains(t, meta.Description, "#")
	assert.Empty(t, meta.Keywords)

	// same input, same fallback
	again, err := svc.SEOMetadata(context.Background(), content, "ignored")
	require.NoError(t, err)
	assert.Equal(t, meta.Slug, again.Slug)
	assert.Equal(t, meta.Description, again.Description)
}

func TestSEOMetadata_FallbackSlugTruncated(t *testing.T) {
	svc, _, _ := newAssistFixture("not json")

	content := "# " + "Very Long Title Words Repeated Again And Again And Again Forever\nbody"
	meta, err := svc.SEOMetadata(context.Background(), content, "t")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(meta.Slug), seoSlugMax)
	assert.NotEqual(t, byte('-'), meta.Slug[len(meta.Slug)-1])
}

func TestSEOMetadata_FallbackKeepsRunesWhole(t *testing.T) {
	svc, _, _ := newAssistFixture("not json")

	// 70 three-byte runes; a byte-indexed cut at 60 would land mid-rune.
	content := "# " + strings.Repeat("日", 70) + "\nbody"
	meta, err := svc.SEOMetadata(context.Background(), content, "t")
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(meta.Title))
	assert.True(t, utf8.ValidString(meta.Description))
	assert.Equal(t, seoTitleMax, utf8.RuneCountInString(meta.Title))
}

func TestCalendar_ParsesEntries(t *testing.T) {
	svc, generator, posts := newAssistFixture(`[{"topic":"Go 2.0","estimated_traffic":"High","date":"2026-09-07"}]`)

	author := primitive.NewObjectID()
	require.NoError(t, posts.Save(context.Background(), &domain.Post{
		Title: "Old Post", Body: "body", Slug: "old-post", CreatedBy: author, CreatedAt: time.Now(),
	}))

	calendar, err := svc.Calendar(context.Background(), author.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.ParsedDirect, calendar.Outcome)
	require.Len(t, calendar.Entries, 1)
	assert.Equal(t, "Go 2.0", calendar.Entries[0].Topic)
	assert.Contains(t, generator.lastPrompt, "Old Post")
}

func TestCalendar_DeterministicFallback(t *testing.T) {
	svc, _, _ := newAssistFixture("Week 1: write about stuff")
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	calendar, err := svc.Calendar(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.FellBackToDefault, calendar.Outcome)
	require.Len(t, calendar.Entries, 5)
	assert.Equal(t, "2026-08-30", calendar.Entries[0].Date)
	assert.Equal(t, "2026-09-06", calendar.Entries[1].Date)
	assert.Equal(t, "2026-09-27", calendar.Entries[4].Date)
}

func TestCalendar_PromptNotesMissingPosts(t *testing.T) {
	svc, generator, _ := newAssistFixture(`[]`)

	_, err := svc.Calendar(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Contains(t, generator.lastPrompt, "No recent posts available")
}

var _ ports.AssistService = (*assistService)(nil)
