package ports

import (
	"context"

	"github.com/blogify/api/internal/core/domain"
)

// TextGenerator is a synchronous chat-style completion call against an
// external model endpoint.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type AssistService interface {
	Draft(ctx context.Context, topic string) (*domain.Draft, error)
	SEOMetadata(ctx context.Context, content, title string) (*domain.SEOMetadata, error)
	Calendar(ctx context.Context, userID string) (*domain.Calendar, error)
}
