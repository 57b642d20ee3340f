package analysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Extraction is what an Extractor finds in a piece of text
type Extraction struct {
	Keywords  []string `json:"keywords"`
	Sentiment float64  `json:"sentiment"` // -1 to 1
}

// Extractor finds topical keywords and sentiment in text
type Extractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// Completer is the chat completion call the LLM extractor needs
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, jsonOutput bool) (string, error)
}

// MaxKeywords caps keywords per text
const MaxKeywords = 8

const extractionPrompt = `You analyse LinkedIn content for a critical-thinking learning platform.
Return a JSON object {"keywords": [...], "sentiment": number}.
keywords: at most 8 short lowercase topical keywords (skills, concepts, themes).
sentiment: overall tone from -1 (negative) to 1 (positive).`

// LLMExtractor extracts with a chat model in JSON mode
type LLMExtractor struct {
	api Completer
}

// NewLLMExtractor creates an LLM-backed extractor
func NewLLMExtractor(api Completer) *LLMExtractor {
	return &LLMExtractor{api: api}
}

// Extract implements Extractor
func (e *LLMExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	out, err := e.api.Complete(ctx, extractionPrompt, text, 200, true)
	if err != nil {
		return Extraction{}, fmt.Errorf("keyword extraction: %w", err)
	}

	var ex Extraction
	if err := json.Unmarshal([]byte(out), &ex); err != nil {
		return Extraction{}, fmt.Errorf("keyword extraction: invalid model output: %w", err)
	}
	ex.Keywords = normalizeKeywords(ex.Keywords)
	ex.Sentiment = clampSentiment(ex.Sentiment)
	return ex, nil
}

// LexiconExtractor matches a fixed vocabulary; used when no model is configured
type LexiconExtractor struct {
	keywords []string
	positive map[string]bool
	negative map[string]bool
}

var defaultLexicon = []string{
	"critical thinking", "problem solving", "decision making", "cognitive bias",
	"logic", "bias", "evidence", "fallacy", "argument", "reasoning",
	"analysis", "creativity", "leadership", "data literacy", "ethics",
	"innovation", "strategy", "communication", "learning", "ai",
}

var (
	positiveWords = []string{"great", "good", "excellent", "love", "inspiring", "success", "growth", "proud", "excited", "improve", "win", "helpful"}
	negativeWords = []string{"bad", "poor", "fail", "failure", "hate", "problem", "wrong", "worse", "worst", "misleading", "frustrating", "decline"}
	nonWord       = regexp.MustCompile(`[^a-z0-9]+`)
)

// NewLexiconExtractor creates an extractor over the default vocabulary
func NewLexiconExtractor() *LexiconExtractor {
	return &LexiconExtractor{
		keywords: defaultLexicon,
		positive: wordSet(positiveWords),
		negative: wordSet(negativeWords),
	}
}

// Extract implements Extractor
func (e *LexiconExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	norm := " " + strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(text), " ")) + " "

	var found []string
	for _, k := range e.keywords {
		if strings.Contains(norm, " "+k+" ") {
			found = append(found, k)
		}
	}

	pos, neg := 0, 0
	for _, w := range strings.Fields(norm) {
		switch {
		case e.positive[w]:
			pos++
		case e.negative[w]:
			neg++
		}
	}
	sentiment := 0.0
	if pos+neg > 0 {
		sentiment = float64(pos-neg) / float64(pos+neg)
	}

	return Extraction{Keywords: normalizeKeywords(found), Sentiment: sentiment}, nil
}

func normalizeKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	if len(out) > MaxKeywords {
		out = out[:MaxKeywords]
	}
	return out
}

func clampSentiment(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
