package service

import (
	"context"
	"strings"

	"github.com/jengzang/thinking-wizard-backend-go/internal/content"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// Completer is the chat completion call used for generated text
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, jsonOutput bool) (string, error)
}

// ContentService generates social content from templates
type ContentService struct {
	api Completer
}

// NewContentService creates a new content service
func NewContentService(api Completer) *ContentService {
	return &ContentService{api: api}
}

// Generate writes content of the requested type
func (s *ContentService) Generate(ctx context.Context, req models.SocialContentRequest) (*models.SocialContentResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, models.ErrMissingPrompt
	}
	tpl, err := content.Lookup(req.ContentType)
	if err != nil {
		return nil, err
	}

	text, err := s.api.Complete(ctx, tpl.SystemPrompt, content.UserPrompt(req), tpl.MaxTokens, false)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)

	if req.ContentType == models.ContentLinkedInPost {
		text = content.AppendHashtags(text, req.CriticalThinkingConcepts)
	}

	return &models.SocialContentResult{
		Content:     text,
		ContentType: req.ContentType,
	}, nil
}
