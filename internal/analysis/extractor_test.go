package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	out string
	err error

	gotJSON bool
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string, _ int, jsonOutput bool) (string, error) {
	f.gotJSON = jsonOutput
	return f.out, f.err
}

func TestLexiconExtractor(t *testing.T) {
	ex := NewLexiconExtractor()

	got, err := ex.Extract(context.Background(), "Great session on Critical Thinking and cognitive bias. Logic wins!")
	require.NoError(t, err)
	assert.Equal(t, []string{"bias", "cognitive bias", "critical thinking", "logic"}, got.Keywords)
	assert.InDelta(t, 1.0, got.Sentiment, 1e-9)

	got, err = ex.Extract(context.Background(), "A misleading argument, bad evidence and a great rebuttal")
	require.NoError(t, err)
	assert.Equal(t, []string{"argument", "evidence"}, got.Keywords)
	assert.InDelta(t, -1.0/3.0, got.Sentiment, 1e-9)
}

func TestLexiconExtractor_NoMatchesAndCancelled(t *testing.T) {
	got, err := NewLexiconExtractor().Extract(context.Background(), "lunch was fine")
	require.NoError(t, err)
	assert.Empty(t, got.Keywords)
	assert.Zero(t, got.Sentiment)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLexiconExtractor().Extract(ctx, "logic")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLLMExtractor_NormalizesOutput(t *testing.T) {
	api := &fakeCompleter{out: `{"keywords":[" Logic ","logic","Ethics",""],"sentiment":3.5}`}
	got, err := NewLLMExtractor(api).Extract(context.Background(), "text")
	require.NoError(t, err)

	assert.True(t, api.gotJSON)
	assert.Equal(t, []string{"ethics", "logic"}, got.Keywords)
	assert.Equal(t, 1.0, got.Sentiment)
}

func TestLLMExtractor_Errors(t *testing.T) {
	upstream := errors.New("boom")
	_, err := NewLLMExtractor(&fakeCompleter{err: upstream}).Extract(context.Background(), "x")
	assert.ErrorIs(t, err, upstream)

	_, err = NewLLMExtractor(&fakeCompleter{out: "not json"}).Extract(context.Background(), "x")
	assert.Error(t, err)
}

func TestNormalizeKeywords_Caps(t *testing.T) {
	in := []string{"j", "i", "h", "g", "f", "e", "d", "c", "b", "a"}
	got := normalizeKeywords(in)
	assert.Len(t, got, MaxKeywords)
	assert.Equal(t, "a", got[0])
}
