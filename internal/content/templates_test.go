package content

import (
	"testing"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	budgets := map[models.ContentType]int{
		models.ContentLinkedInPost:        400,
		models.ContentArticle:             1200,
		models.ContentDiscussionQuestions: 500,
		models.ContentCaseStudy:           900,
	}
	for ct, want := range budgets {
		tpl, err := Lookup(ct)
		require.NoError(t, err, ct)
		assert.Equal(t, want, tpl.MaxTokens, ct)
		assert.NotEmpty(t, tpl.SystemPrompt)
	}

	_, err := Lookup("tweet")
	assert.ErrorIs(t, err, models.ErrUnknownContentType)
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt(models.SocialContentRequest{
		Prompt:                   " remote work ",
		LocationContext:          "Berlin",
		CriticalThinkingConcepts: []string{"anchoring", "base rates"},
	})
	assert.Equal(t, "Topic: remote work\nRegional context: Berlin\nCritical thinking concepts to weave in: anchoring, base rates", got)

	assert.Equal(t, "Topic: x", UserPrompt(models.SocialContentRequest{Prompt: "x"}))
}

func TestHashtag(t *testing.T) {
	assert.Equal(t, "#ConfirmationBias", Hashtag("confirmation bias"))
	assert.Equal(t, "#FirstPrinciples", Hashtag("first-principles"))
	assert.Equal(t, "", Hashtag(" - "))
}

func TestAppendHashtags(t *testing.T) {
	got := AppendHashtags("Question everything.\n", []string{"confirmation bias", "critical thinking", "Learning"})
	assert.Equal(t, "Question everything.\n\n#CriticalThinking #ConfirmationBias #Learning", got)

	kept := "Already tagged #Logic"
	assert.Equal(t, kept, AppendHashtags(kept, []string{"bias"}))

	// A hash inside a word is not a hashtag
	assert.Equal(t, "C#code\n\n#CriticalThinking #Learning", AppendHashtags("C#code", nil))
}
