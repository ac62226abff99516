package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// AIDraftPolisher rewrites templated reply drafts with the Anthropic API so
// that the reply addresses what the reviewer actually wrote.
type AIDraftPolisher struct {
	client anthropic.Client
	model  string
	logger logger.Logger
}

// NewAIDraftPolisher creates a polisher for the given API key and model.
func NewAIDraftPolisher(apiKey, model string, log logger.Logger) *AIDraftPolisher {
	return &AIDraftPolisher{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: log,
	}
}

// Polish rewrites the draft. The returned text keeps the tone of the draft
// but references the review content specifically.
func (p *AIDraftPolisher) Polish(ctx context.Context, draft string, review *domain.Review) (string, error) {
	prompt := fmt.Sprintf(
		"A customer left this %d-star review of a local business:\n\n%q\n\n"+
			"Here is a templated reply draft:\n\n%q\n\n"+
			"Rewrite the reply so it addresses the specifics of the review while keeping "+
			"the same tone, length and sign-off. Reply with the rewritten text only.",
		review.Rating, review.Content, draft)

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("polish request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	polished := strings.TrimSpace(sb.String())
	if polished == "" {
		return "", fmt.Errorf("polish returned no text")
	}
	return polished, nil
}
