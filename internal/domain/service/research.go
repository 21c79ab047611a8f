package service

import (
	"context"
	"time"

	"StockSleuth/internal/domain/models"
)

// Reasoner sends a prompt to a text-generation service and returns the raw
// completion. Implementations isolate transport/auth failures from the
// pipeline's decision logic; callers treat any error as a decode failure.
type Reasoner interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// NewsQuery parameterizes one evidence search.
type NewsQuery struct {
	Symbol string
	From   time.Time
	To     time.Time
	Topics []string // empty means broadest search
	Limit  int
}

// NewsSource searches an external news/sentiment service and returns
// canonical articles sorted descending by relevance.
type NewsSource interface {
	Search(ctx context.Context, q NewsQuery) ([]models.Article, error)
}
