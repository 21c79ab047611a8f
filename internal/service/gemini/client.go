package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	domsvc "StockSleuth/internal/domain/service"
	xlogger "StockSleuth/pkg/logger"

	"google.golang.org/genai"
)

// Client implements a Reasoner backed by the Gemini API. Transport and
// auth failures stay here; callers fold any returned error into their
// own fallback path.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *xlogger.Logger
}

// New creates a Gemini reasoning client. The API key is required; this is
// the one configuration error fatal to the whole service.
func New(ctx context.Context, apiKey, model string, timeout time.Duration, logger *xlogger.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Client{client: cl, model: model, timeout: timeout, logger: logger}, nil
}

// GenerateText sends a single-turn prompt and returns the raw completion
// text. No schema is enforced by the service; callers decode what they
// can.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(tctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var out strings.Builder
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini generate: empty completion")
	}

	c.logger.Debug("gemini completion",
		xlogger.String("model", c.model),
		xlogger.Int("prompt_len", len(prompt)),
		xlogger.Int("response_len", out.Len()),
		xlogger.Duration("duration", time.Since(start)))

	return out.String(), nil
}

var _ domsvc.Reasoner = (*Client)(nil)
