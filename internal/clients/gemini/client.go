package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//Model15Flash is fastest multimodal model with great performance for diverse, repetitive tasks
	Model15Flash Model = "gemini-1.5-flash"
	//Model15Pro is next-generation model with a breakthrough 2 million context window
	Model15Pro Model = "gemini-1.5-pro"
	//EmbeddingModel produces the vectors used for semantic similarity
	EmbeddingModel = "text-embedding-004"
)

type Client struct {
	client            *genai.Client
	model             *genai.GenerativeModel
	embedder          *genai.EmbeddingModel
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	service := Client{
		client:   client,
		model:    client.GenerativeModel(string(model)),
		embedder: client.EmbeddingModel(EmbeddingModel),
	}

	return &service, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

func (c *Client) GenerateResponse(ctx context.Context, text string) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		resp, err = c.waitAndGenerateResponse(ctx, text)
		return err, isInternalError(err)
	})

	return resp, err
}

// Embed converts text to the embedding vector backing semantic matching.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {

	if err := c.waitForLimiters(ctx); err != nil {
		return nil, err
	}

	res, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("empty embedding response")
	}

	return res.Embedding.Values, nil
}

func (c *Client) waitAndGenerateResponse(ctx context.Context, text string) (string, error) {

	if err := c.waitForLimiters(ctx); err != nil {
		return "", err
	}

	resp, err := c.tryGenerateResponse(ctx, text)
	if err != nil {
		return "", err
	}
	return resp, nil
}

func (c *Client) waitForLimiters(ctx context.Context) error {
	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) tryGenerateResponse(ctx context.Context, text string) (string, error) {

	response, err := c.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", err
	}

	part := response.Candidates[0].Content.Parts[0]

	if textPart, ok := part.(genai.Text); ok {
		return string(textPart), nil
	}

	return "", fmt.Errorf("response part is not text")
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
