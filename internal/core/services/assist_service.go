package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

const systemPrompt = "You are a helpful AI assistant."

const draftPrompt = `You are a professional blog writer. Generate a comprehensive blog post about the following topic.

Topic: {topic}

Please create:
1. An engaging title
2. A compelling introduction
3. Well-structured main content with subheadings
4. A strong conclusion
5. Use markdown formatting

The blog post should be informative, engaging, and approximately 800-1200 words. Do not include any explanations or introductory phrases — only output the final blog post content.`

const seoPrompt = `You are an SEO expert. Analyze the following blog post content and generate SEO metadata.

Title: {title}
Content: {content}

Please generate:
1. SEO-optimized title (max 60 characters)
2. URL slug (lowercase, hyphens, no special characters)
3. Meta description (max 160 characters)
4. 5-7 relevant keywords

Return the response as a JSON object with these fields: title, slug, description, keywords.`

const calendarPrompt = `You are a content strategy expert. Create a 4-week content calendar for a blog about:

Topic: {topic}

Recent posts on this blog:
{recentPosts}

Suggest five upcoming post topics spread over the next four weeks. Return the response as a JSON array of objects with these fields: topic, estimated_traffic, date (YYYY-MM-DD).`

const (
	seoTitleMax = 60
	seoSlugMax  = 50
	seoDescMax  = 160
)

var (
	fenceRe   = regexp.MustCompile("```(?:json)?\\n([\\s\\S]*?)\\n```")
	headingRe = regexp.MustCompile(`(?m)^#\s*(.+)$`)
)

type assistService struct {
	generator ports.TextGenerator
	posts     ports.PostRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewAssistService(generator ports.TextGenerator, posts ports.PostRepository, logger *zap.Logger) ports.AssistService {
	return &assistService{
		generator: generator,
		posts:     posts,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *assistService) Draft(ctx context.Context, topic string) (*domain.Draft, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", domain.ErrValidation)
	}

	markdown, err := s.generate(ctx, draftPrompt, map[string]string{"topic": topic})
	if err != nil {
		return nil, err
	}

	title := topic
	if m := headingRe.FindStringSubmatch(markdown); m != nil {
		title = strings.TrimSpace(m[1])
	}

	return &domain.Draft{
		Topic:    topic,
		Title:    title,
		Markdown: markdown,
	}, nil
}

func (s *assistService) SEOMetadata(ctx context.Context, content, title string) (*domain.SEOMetadata, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if title == "" {
		title = "Blog Post"
	}

	raw, err := s.generate(ctx, seoPrompt, map[string]string{
		"title":   title,
		"content": truncate(content, 2000),
	})
	if err != nil {
		return nil, err
	}

	var meta domain.SEOMetadata
	outcome := safeParse(raw, &meta)
	if outcome == domain.FellBackToDefault || meta.Slug == "" {
		meta = fallbackSEO(content)
		outcome = domain.FellBackToDefault
		s.logger.Debug("seo metadata fell back to local default")
	}
	if meta.Keywords == nil {
		meta.Keywords = []string{}
	}
	meta.Outcome = outcome
	return &meta, nil
}

func (s *assistService) Calendar(ctx context.Context, userID string) (*domain.Calendar, error) {
	recent, err := s.posts.ListByAuthor(ctx, userID, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}

	var lines []string
	for _, p := range recent {
		lines = append(lines, fmt.Sprintf("- %s: %s...", p.Title, truncate(p.Body, 100)))
	}
	recentText := strings.Join(lines, "\n")
	if recentText == "" {
		recentText = "No recent posts available"
	}

	raw, err := s.generate(ctx, calendarPrompt, map[string]string{
		"topic":       "technology and programming",
		"recentPosts": recentText,
	})
	if err != nil {
		return nil, err
	}

	var entries []domain.CalendarEntry
	outcome := safeParse(raw, &entries)
	if outcome == domain.FellBackToDefault || len(entries) == 0 {
		entries = s.fallbackCalendar()
		outcome = domain.FellBackToDefault
		s.logger.Debug("content calendar fell back to local default")
	}

	return &domain.Calendar{Entries: entries, Outcome: outcome}, nil
}

func (s *assistService) generate(ctx context.Context, template string, vars map[string]string) (string, error) {
	out, err := s.generator.Generate(ctx, systemPrompt, formatPrompt(template, vars))
	if err != nil {
		return "", fmt.Errorf("%w: text generation failed: %v", domain.ErrUpstream, err)
	}
	return out, nil
}

// formatPrompt substitutes {name} placeholders. Placeholders with no
// matching variable are left verbatim.
func formatPrompt(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// safeParse tries the raw response as JSON, then the contents of the first
// fenced code block. It reports which stage succeeded; on total failure the
// caller substitutes a deterministic default.
func safeParse(raw string, v any) domain.ParseOutcome {
	if json.Unmarshal([]byte(raw), v) == nil {
		return domain.ParsedDirect
	}
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		if json.Unmarshal([]byte(m[1]), v) == nil {
			return domain.ParsedFromFence
		}
	}
	return domain.FellBackToDefault
}

func fallbackSEO(content string) domain.SEOMetadata {
	firstLine, _, _ := strings.Cut(content, "\n")
	firstLine = strings.TrimSpace(strings.TrimLeft(firstLine, "# "))

	description := headingRe.ReplaceAllString(content, "")
	description = strings.TrimSpace(strings.Join(strings.Fields(description), " "))

	return domain.SEOMetadata{
		Title:       truncate(firstLine, seoTitleMax),
		Slug:        strings.TrimRight(truncate(slug.Make(firstLine), seoSlugMax), "-"),
		Description: truncate(description, seoDescMax),
		Keywords:    []string{},
	}
}

func (s *assistService) fallbackCalendar() []domain.CalendarEntry {
	day := func(offset int) string {
		return s.now().AddDate(0, 0, offset).Format("2006-01-02")
	}
	return []domain.CalendarEntry{
		{Topic: "Industry Trends", EstimatedTraffic: "High", Date: day(0)},
		{Topic: "Best Practices Guide", EstimatedTraffic: "Medium", Date: day(7)},
		{Topic: "Case Study Analysis", EstimatedTraffic: "Medium", Date: day(14)},
		{Topic: "Tips and Tricks", EstimatedTraffic: "Low", Date: day(21)},
		{Topic: "Future Predictions", EstimatedTraffic: "High", Date: day(28)},
	}
}

// truncate counts runes, not bytes, so a multi-byte character is never cut
// in half.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
