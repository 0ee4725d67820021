// Package advisor implements the CategoryAdvisor port against an
// OpenAI-compatible chat completion endpoint. Proposals are advisory
// only; an operator approves them before anything moves.
package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/golang-lru/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/example/curator/internal/ports/secondary"
)

const systemPrompt = "You label Second Life inventory. Given a folder or item name, " +
	"pick the single best matching category from the provided list. " +
	"Reply with exactly one line of the form category|confidence, " +
	"where confidence is a number between 0 and 1. " +
	"Use only categories from the list."

// completionClient is the slice of the OpenAI SDK the advisor needs.
// *openai.Client satisfies it; tests inject fakes.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config carries the connection settings for the advisory model.
type Config struct {
	// BaseURL overrides the endpoint for non-OpenAI providers.
	BaseURL string
	APIKey  string
	Model   string

	// CacheSize bounds the in-process suggestion cache. Defaults to 512.
	CacheSize int
}

// Advisor proposes categories for names the rule set could not place.
type Advisor struct {
	api   completionClient
	model string
	cache *lru.Cache[string, secondary.AdvisorSuggestion]
}

// NewAdvisor creates an advisor from config.
func NewAdvisor(cfg Config) (*Advisor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("advisor api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("advisor model is required")
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 512
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	cache, err := lru.New[string, secondary.AdvisorSuggestion](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
	}

	return &Advisor{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.Model,
		cache: cache,
	}, nil
}

// SuggestCategory proposes one of categories for name. Repeat lookups
// for the same name answer from the cache without touching the API.
func (a *Advisor) SuggestCategory(ctx context.Context, name string, categories []string) (*secondary.AdvisorSuggestion, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories to choose from")
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if cached, ok := a.cache.Get(key); ok {
		return &cached, nil
	}

	resp, err := a.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: 32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(name, categories)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("advisor api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("advisor returned no choices")
	}

	suggestion, err := parseReply(resp.Choices[0].Message.Content, categories)
	if err != nil {
		return nil, err
	}

	a.cache.Add(key, *suggestion)
	return suggestion, nil
}

func userPrompt(name string, categories []string) string {
	return fmt.Sprintf("Name: %s\nCategories: %s", name, strings.Join(categories, ", "))
}

// parseReply decodes a category|confidence line, mapping the category
// onto the canonical list's spelling. A missing or unparseable
// confidence falls back to 0.5.
func parseReply(reply string, categories []string) (*secondary.AdvisorSuggestion, error) {
	reply, _, _ = strings.Cut(strings.TrimSpace(reply), "\n")

	categoryPart, confidencePart, _ := strings.Cut(reply, "|")
	category := strings.Trim(strings.TrimSpace(categoryPart), `"`)

	matched := ""
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			matched = c
			break
		}
	}
	if matched == "" {
		return nil, fmt.Errorf("advisor proposed unknown category %q", category)
	}

	confidence := 0.5
	if s := strings.TrimSpace(confidencePart); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			confidence = v
		}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &secondary.AdvisorSuggestion{Category: matched, Confidence: confidence}, nil
}

// Ensure Advisor implements the interface
var _ secondary.CategoryAdvisor = (*Advisor)(nil)
