package models

// ImageRequest is the body of the image generation endpoint
type ImageRequest struct {
	Prompt  string `json:"prompt"`
	Size    string `json:"size" binding:"omitempty,oneof=1024x1024 1792x1024 1024x1792"`
	Quality string `json:"quality" binding:"omitempty,oneof=standard hd"`
}

// ImageResult is returned by the image generation endpoint
type ImageResult struct {
	ImageURL      string `json:"imageUrl"`
	Stored        bool   `json:"stored"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ContentType selects a social content prompt template
type ContentType string

// Social content types
const (
	ContentLinkedInPost        ContentType = "linkedin_post"
	ContentArticle             ContentType = "article"
	ContentDiscussionQuestions ContentType = "discussion_questions"
	ContentCaseStudy           ContentType = "case_study"
)

// SocialContentRequest is the body of the social content endpoint
type SocialContentRequest struct {
	Prompt                   string      `json:"prompt"`
	ContentType              ContentType `json:"content_type"`
	LocationContext          string      `json:"location_context,omitempty"`
	CriticalThinkingConcepts []string    `json:"critical_thinking_concepts,omitempty"`
}

// SocialContentResult is returned by the social content endpoint
type SocialContentResult struct {
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
}
