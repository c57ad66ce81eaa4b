package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

var (
	// ErrNotConfigured indicates the gateway has no API credential
	ErrNotConfigured = errors.New("generative service is not configured")

	// ErrUpstream is wrapped by all failures of the external service,
	// including empty responses
	ErrUpstream = errors.New("generative service request failed")
)

// Generator is the capability boundary to the external generative-text
// service: prompt in, raw text out, a single round trip per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements Generator against the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends a single prompt and returns the raw text response.
// No retry, no caching, no streaming.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		slog.Error("genai call failed", "model", g.model, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}

	return text, nil
}

// Gateway serializes structured inputs into fixed prompt templates and
// forwards them to the generator. It contains no domain logic.
type Gateway struct {
	generator Generator
}

// NewGateway creates a suggestion gateway over a generator
func NewGateway(generator Generator) *Gateway {
	return &Gateway{generator: generator}
}

// AnalyzeProblem returns setup recommendations for a problem statement
func (g *Gateway) AnalyzeProblem(ctx context.Context, input AnalyzeProblemInput) (string, error) {
	return g.generator.Generate(ctx, input.Prompt())
}

// ValidateRequirements reviews submission requirements for clarity and feasibility
func (g *Gateway) ValidateRequirements(ctx context.Context, input ValidateRequirementsInput) (string, error) {
	return g.generator.Generate(ctx, input.Prompt())
}

// SuggestPrize proposes a prize structure for the given parameters
func (g *Gateway) SuggestPrize(ctx context.Context, input SuggestPrizeInput) (string, error) {
	return g.generator.Generate(ctx, input.Prompt())
}

// EvaluationCriteria proposes weighted evaluation criteria
func (g *Gateway) EvaluationCriteria(ctx context.Context, input EvaluationCriteriaInput) (string, error) {
	return g.generator.Generate(ctx, input.Prompt())
}
