package canvas

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/metrics"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/storage"
)

const canvasNamespace = "canvas"

// Save triggers
const (
	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerShutdown = "shutdown"
)

type canvasKey struct {
	userID string
	lesson string
}

func (k canvasKey) String() string { return k.userID + "/" + k.lesson }

// Persister owns the loaded canvases and saves dirty ones periodically
type Persister struct {
	store    *storage.LocalStore
	interval time.Duration

	mu       sync.Mutex
	canvases map[canvasKey]*Canvas
}

// NewPersister creates a persister saving every interval
func NewPersister(store *storage.LocalStore, interval time.Duration) *Persister {
	return &Persister{
		store:    store,
		interval: interval,
		canvases: make(map[canvasKey]*Canvas),
	}
}

// Get returns the user's canvas for lesson, loading it on first access
func (p *Persister) Get(ctx context.Context, userID, lesson string) (*Canvas, error) {
	key := canvasKey{userID: userID, lesson: lesson}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.canvases[key]; ok {
		return c, nil
	}

	var state models.LessonState
	err := p.store.Get(ctx, canvasNamespace, key.String(), &state)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	c := newCanvas(state)
	p.canvases[key] = c
	return c, nil
}

// SaveNow persists one canvas immediately
func (p *Persister) SaveNow(ctx context.Context, userID, lesson string) (time.Time, error) {
	c, err := p.Get(ctx, userID, lesson)
	if err != nil {
		return time.Time{}, err
	}
	return p.save(ctx, canvasKey{userID: userID, lesson: lesson}, c, TriggerManual)
}

func (p *Persister) save(ctx context.Context, key canvasKey, c *Canvas, trigger string) (time.Time, error) {
	now := time.Now().UTC()
	state, version := c.snapshot(now)
	if err := p.store.Put(ctx, canvasNamespace, key.String(), state); err != nil {
		metrics.CanvasSaves.WithLabelValues(trigger, "failure").Inc()
		return time.Time{}, err
	}
	c.markSaved(version, now)
	metrics.CanvasSaves.WithLabelValues(trigger, "success").Inc()
	return now, nil
}

// SaveDirty persists every canvas with unsaved changes and returns how many were saved
func (p *Persister) SaveDirty(ctx context.Context, trigger string) int {
	p.mu.Lock()
	dirty := make(map[canvasKey]*Canvas)
	for k, c := range p.canvases {
		if c.Dirty() {
			dirty[k] = c
		}
	}
	p.mu.Unlock()

	saved := 0
	for k, c := range dirty {
		if _, err := p.save(ctx, k, c, trigger); err != nil {
			logging.With("canvas").Error().Err(err).Str("canvas", k.String()).Msg("Error saving canvas")
			continue
		}
		saved++
	}
	return saved
}

// Run saves dirty canvases every interval until ctx is done, then saves once more
func (p *Persister) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log := logging.With("canvas")
	for {
		select {
		case <-ctx.Done():
			n := p.SaveDirty(context.Background(), TriggerShutdown)
			log.Info().Int("saved", n).Msg("Canvas persister stopped")
			return
		case <-ticker.C:
			if n := p.SaveDirty(ctx, TriggerInterval); n > 0 {
				log.Debug().Int("saved", n).Msg("Canvases saved")
			}
		}
	}
}
