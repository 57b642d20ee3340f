package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/database"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, string) (Extraction, error) {
	return Extraction{}, errors.New("upstream down")
}

// rejectingExtractor fails on text starting with "broken" and defers to the lexicon otherwise
type rejectingExtractor struct{}

func (rejectingExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	if strings.HasPrefix(text, "broken") {
		return Extraction{}, errors.New("unparseable model output")
	}
	return NewLexiconExtractor().Extract(ctx, text)
}

func newTestProcessor(t *testing.T, ex Extractor) (*Processor, *repository.LinkedInRepository, *repository.HeatmapRepository) {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "analysis.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db).RunMigrations())

	linkedin := repository.NewLinkedInRepository(db)
	heatmap := repository.NewHeatmapRepository(db)
	return NewProcessor(linkedin, heatmap, ex, 10), linkedin, heatmap
}

func seed(t *testing.T, repo *repository.LinkedInRepository) {
	t.Helper()
	ctx := context.Background()
	lat, lng := 38.7223, -9.1393

	ids, err := repo.InsertProfiles(ctx, []models.LinkedInProfile{
		{ExternalID: "p1", Name: "Ana", Headline: "Teaching critical thinking", Summary: "Logic and ethics", LocationName: "Lisbon", Latitude: &lat, Longitude: &lng},
		{ExternalID: "p2", Name: "Rui", Headline: "Product strategy"},
	})
	require.NoError(t, err)

	posted := time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC)
	_, err = repo.InsertPosts(ctx, []models.LinkedInPost{
		{ExternalID: "a", ProfileID: ids[0], Content: "Great debate about cognitive bias", Likes: 3, Comments: 1, PostedAt: posted},
		{ExternalID: "b", ProfileID: ids[0], Content: "Logic puzzles for the team", Shares: 2, PostedAt: posted},
		{ExternalID: "c", ProfileID: ids[1], Content: "Strategy offsite", PostedAt: posted},
	})
	require.NoError(t, err)
}

func TestProcessor_FullAnalysis(t *testing.T) {
	ctx := context.Background()
	p, linkedin, heatmap := newTestProcessor(t, NewLexiconExtractor())
	seed(t, linkedin)

	out, err := p.Run(ctx, models.ActionFullAnalysis, 50)
	require.NoError(t, err)
	res := out.(*models.FullAnalysisResult)

	assert.Equal(t, 2, res.Profiles.Processed)
	assert.Equal(t, 3, res.Posts.Processed)
	// p2 has no coordinates so only Lisbon posts produce points: bias, cognitive bias, logic
	assert.Equal(t, 3, res.Heatmap.PointsGenerated)
	assert.Equal(t, 1, res.Heatmap.Snapshots)

	f := models.DefaultHeatmapFilters(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	points, err := heatmap.QueryPoints(ctx, f)
	require.NoError(t, err)
	assert.Len(t, points, 3)

	// A second run has nothing left to process
	again, err := p.ProcessPosts(ctx, 50)
	require.NoError(t, err)
	assert.Zero(t, again.Processed)
}

func TestProcessor_BatchSizeLimitsWork(t *testing.T) {
	p, linkedin, _ := newTestProcessor(t, NewLexiconExtractor())
	seed(t, linkedin)

	res, err := p.ProcessPosts(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
}

func TestProcessor_AllExtractionsFail(t *testing.T) {
	p, linkedin, _ := newTestProcessor(t, failingExtractor{})
	seed(t, linkedin)

	_, err := p.Run(context.Background(), models.ActionProcessProfiles, 50)
	assert.Error(t, err)

	_, err = p.Run(context.Background(), models.ActionFullAnalysis, 50)
	assert.Error(t, err)
}

func TestProcessor_FailingRowsDoNotBlockLaterRows(t *testing.T) {
	ctx := context.Background()
	p, linkedin, _ := newTestProcessor(t, rejectingExtractor{})

	ids, err := linkedin.InsertProfiles(ctx, []models.LinkedInProfile{{ExternalID: "p1", Name: "Ana"}})
	require.NoError(t, err)
	posted := time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC)
	_, err = linkedin.InsertPosts(ctx, []models.LinkedInPost{
		{ExternalID: "a", ProfileID: ids[0], Content: "broken one", PostedAt: posted},
		{ExternalID: "b", ProfileID: ids[0], Content: "broken two", PostedAt: posted},
		{ExternalID: "c", ProfileID: ids[0], Content: "logic is great", PostedAt: posted},
	})
	require.NoError(t, err)

	// The first batch holds only failing rows
	_, err = p.ProcessPosts(ctx, 2)
	require.Error(t, err)

	res, err := p.ProcessPosts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	// Failing rows are retried until they run out of attempts, then skipped
	for i := 0; i < repository.MaxExtractionAttempts; i++ {
		_, _ = p.ProcessPosts(ctx, 2)
	}
	pending, err := linkedin.ListUnprocessedPosts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessor_UnknownAction(t *testing.T) {
	p, _, _ := newTestProcessor(t, NewLexiconExtractor())
	_, err := p.Run(context.Background(), "nope", 50)
	assert.ErrorIs(t, err, models.ErrInvalidAction)
	assert.True(t, IsInputError(err))
}
