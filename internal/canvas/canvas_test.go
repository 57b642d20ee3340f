package canvas

import (
	"context"
	"testing"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonGraph() models.Graph {
	return models.Graph{
		Nodes: []models.GraphNode{
			{ID: "intro", Type: "concept", Label: "Claims"},
			{ID: "q1", Type: QuestionNodeType, Label: "Is this a fallacy?"},
			{ID: "q2", Type: QuestionNodeType, Label: "What is the evidence?"},
		},
		Edges: []models.GraphEdge{
			{Source: "intro", Target: "q1"},
			{ID: "e2", Source: "q1", Target: "q2"},
		},
	}
}

func newTestPersister(t *testing.T, interval time.Duration) (*Persister, *storage.LocalStore) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := storage.NewLocalStore(db)
	return NewPersister(store, interval), store
}

func TestCanvas_SetGraph(t *testing.T) {
	c := newCanvas(models.LessonState{})
	g, err := c.SetGraph(lessonGraph())
	require.NoError(t, err)
	assert.NotEmpty(t, g.Edges[0].ID)
	assert.Equal(t, "e2", g.Edges[1].ID)
	assert.True(t, c.Dirty())

	bad := lessonGraph()
	bad.Edges = append(bad.Edges, models.GraphEdge{Source: "q2", Target: "missing"})
	_, err = c.SetGraph(bad)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	dup := lessonGraph()
	dup.Nodes = append(dup.Nodes, models.GraphNode{ID: "q1"})
	_, err = c.SetGraph(dup)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCanvas_AnswerNeverDoubleScores(t *testing.T) {
	c := newCanvas(models.LessonState{})
	_, err := c.SetGraph(lessonGraph())
	require.NoError(t, err)

	res, err := c.Answer("q1", false)
	require.NoError(t, err)
	assert.False(t, res.Scored)
	assert.Zero(t, res.Score)

	res, err = c.Answer("q1", true)
	require.NoError(t, err)
	assert.True(t, res.Scored)
	assert.Equal(t, PointsPerAnswer, res.Score)
	assert.Equal(t, 0.5, res.Progress)

	res, err = c.Answer("q1", true)
	require.NoError(t, err)
	assert.False(t, res.Scored)
	assert.Equal(t, PointsPerAnswer, res.Score)

	_, err = c.Answer("intro", true)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = c.Answer("nope", true)
	assert.ErrorIs(t, err, models.ErrNotFound)

	res, err = c.Answer("q2", true)
	require.NoError(t, err)
	assert.Equal(t, 2*PointsPerAnswer, res.Score)
	assert.Equal(t, 1.0, c.Progress())
}

func TestPersister_SaveNowAndReload(t *testing.T) {
	ctx := context.Background()
	p, store := newTestPersister(t, time.Hour)

	c, err := p.Get(ctx, "u1", "logic-101")
	require.NoError(t, err)
	assert.Empty(t, c.State().Graph.Nodes)

	_, err = c.SetGraph(lessonGraph())
	require.NoError(t, err)
	_, err = c.Answer("q1", true)
	require.NoError(t, err)

	savedAt, err := p.SaveNow(ctx, "u1", "logic-101")
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
	assert.False(t, c.Dirty())

	// A fresh persister over the same store loads the saved state
	reloaded, err := NewPersister(store, time.Hour).Get(ctx, "u1", "logic-101")
	require.NoError(t, err)
	state := reloaded.State()
	assert.Len(t, state.Graph.Nodes, 3)
	assert.Equal(t, PointsPerAnswer, state.Game.Score)
	assert.True(t, state.Game.Answered["q1"])
}

func TestPersister_RunSavesOnIntervalAndShutdown(t *testing.T) {
	p, store := newTestPersister(t, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	c, err := p.Get(ctx, "u1", "l1")
	require.NoError(t, err)
	_, err = c.SetGraph(lessonGraph())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return !c.Dirty() }, time.Second, 5*time.Millisecond)

	_, err = c.Answer("q2", true)
	require.NoError(t, err)
	cancel()
	<-done

	var state models.LessonState
	require.NoError(t, store.Get(context.Background(), canvasNamespace, "u1/l1", &state))
	assert.Equal(t, PointsPerAnswer, state.Game.Score)
}

func TestPersister_SaveDirtySkipsClean(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPersister(t, time.Hour)

	_, err := p.Get(ctx, "u1", "clean")
	require.NoError(t, err)
	c, err := p.Get(ctx, "u1", "dirty")
	require.NoError(t, err)
	_, err = c.SetGraph(lessonGraph())
	require.NoError(t, err)

	assert.Equal(t, 1, p.SaveDirty(ctx, TriggerManual))
	assert.Zero(t, p.SaveDirty(ctx, TriggerManual))
}
