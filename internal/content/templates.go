// Package content builds prompts for the social content generator and
// post-processes what the model returns.
package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// Template is the system prompt and output budget of one content type
type Template struct {
	SystemPrompt string
	MaxTokens    int
}

const persona = "You are an educator who writes about critical thinking for professionals. "

var templates = map[models.ContentType]Template{
	models.ContentLinkedInPost: {
		SystemPrompt: persona + "Write an engaging LinkedIn post of at most 1300 characters with a hook in the first line, a short insight and a question for readers. End with relevant hashtags.",
		MaxTokens:    400,
	},
	models.ContentArticle: {
		SystemPrompt: persona + "Write a structured article with a title, an introduction, three to five sections with headings and a conclusion with practical takeaways.",
		MaxTokens:    1200,
	},
	models.ContentDiscussionQuestions: {
		SystemPrompt: persona + "Write five to eight open-ended discussion questions that push learners to examine assumptions, evidence and alternative viewpoints. Number them.",
		MaxTokens:    500,
	},
	models.ContentCaseStudy: {
		SystemPrompt: persona + "Write a case study with background, the decision problem, the evidence available, the reasoning traps involved and reflection questions.",
		MaxTokens:    900,
	},
}

// Lookup returns the template of a content type
func Lookup(ct models.ContentType) (Template, error) {
	t, ok := templates[ct]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", models.ErrUnknownContentType, ct)
	}
	return t, nil
}

// UserPrompt combines the request topic with its optional context
func UserPrompt(req models.SocialContentRequest) string {
	var b strings.Builder
	b.WriteString("Topic: ")
	b.WriteString(strings.TrimSpace(req.Prompt))
	if loc := strings.TrimSpace(req.LocationContext); loc != "" {
		b.WriteString("\nRegional context: ")
		b.WriteString(loc)
	}
	if len(req.CriticalThinkingConcepts) > 0 {
		b.WriteString("\nCritical thinking concepts to weave in: ")
		b.WriteString(strings.Join(req.CriticalThinkingConcepts, ", "))
	}
	return b.String()
}

var (
	hashtagPattern = regexp.MustCompile(`(^|\s)#\w+`)
	nonTagChars    = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// HasHashtags reports whether text already contains a hashtag
func HasHashtags(text string) bool {
	return hashtagPattern.MatchString(text)
}

// Hashtag turns a concept such as "confirmation bias" into "#ConfirmationBias"
func Hashtag(concept string) string {
	var b strings.Builder
	for _, word := range strings.Fields(nonTagChars.ReplaceAllString(concept, " ")) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

// AppendHashtags adds #CriticalThinking, one tag per concept and #Learning
// unless the text already carries hashtags
func AppendHashtags(text string, concepts []string) string {
	if HasHashtags(text) {
		return text
	}
	tags := []string{"#CriticalThinking"}
	seen := map[string]bool{"#CriticalThinking": true, "#Learning": true}
	for _, c := range concepts {
		tag := Hashtag(c)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	tags = append(tags, "#Learning")
	return strings.TrimRight(text, " \n") + "\n\n" + strings.Join(tags, " ")
}
