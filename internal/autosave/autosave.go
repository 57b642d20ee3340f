// Package autosave debounces reflection edits into saves.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/debounce"
	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/metrics"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/internal/storage"
)

// Save targets
const (
	TargetLocal  = "local"
	TargetRemote = "remote"
)

// saveTimeout bounds one debounced write
const saveTimeout = 10 * time.Second

// ErrClosed is returned by a registry after Close
var ErrClosed = errors.New("autosave: registry closed")

// Saver persists a reflection
type Saver interface {
	Save(ctx context.Context, ref models.Reflection) error
}

// LocalSaver keeps drafts in the local store
type LocalSaver struct {
	store *storage.LocalStore
}

// NewLocalSaver creates a saver over store
func NewLocalSaver(store *storage.LocalStore) *LocalSaver {
	return &LocalSaver{store: store}
}

const draftNamespace = "reflections"

func draftKey(key models.ReflectionKey) string {
	return fmt.Sprintf("%s/%d/%d", key.UserID, key.SessionNumber, key.LectureNumber)
}

// Save implements Saver
func (s *LocalSaver) Save(ctx context.Context, ref models.Reflection) error {
	if ref.UpdatedAt.IsZero() {
		ref.UpdatedAt = time.Now().UTC()
	}
	return s.store.Put(ctx, draftNamespace, draftKey(ref.ReflectionKey), ref)
}

// Load reads a locally saved draft
func (s *LocalSaver) Load(ctx context.Context, key models.ReflectionKey) (*models.Reflection, error) {
	var ref models.Reflection
	if err := s.store.Get(ctx, draftNamespace, draftKey(key), &ref); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// Editor debounces the edits of one reflection
type Editor struct {
	key    models.ReflectionKey
	saver  Saver
	target string
	d      *debounce.Debouncer[string]
	saved  func() // runs after each save attempt; set by Registry
}

// NewEditor creates an editor saving through saver after delay of inactivity
func NewEditor(key models.ReflectionKey, delay time.Duration, saver Saver, target string) *Editor {
	e := &Editor{key: key, saver: saver, target: target}
	e.d = debounce.New(delay, e.save)
	return e
}

func (e *Editor) save(content string) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if e.saved != nil {
		defer e.saved()
	}

	err := e.saver.Save(ctx, models.Reflection{ReflectionKey: e.key, Content: content})
	if err != nil {
		metrics.AutosaveWrites.WithLabelValues(e.target, "failure").Inc()
		log := logging.With("autosave")
		log.Error().Err(err).
			Str("user_id", e.key.UserID).
			Int("session", e.key.SessionNumber).
			Int("lecture", e.key.LectureNumber).
			Msg("Error saving reflection")
		return
	}
	metrics.AutosaveWrites.WithLabelValues(e.target, "success").Inc()
}

// Update schedules a save of content, replacing any pending one
func (e *Editor) Update(content string) { e.d.Update(content) }

// Flush saves a pending edit now
func (e *Editor) Flush() bool { return e.d.Flush() }

// Discard cancels a pending edit and waits for a save already running.
// The editor is unusable afterwards.
func (e *Editor) Discard() bool { return e.d.Stop() }

// Pending reports whether a save is scheduled
func (e *Editor) Pending() bool { return e.d.Pending() }

// Registry keeps one editor per reflection key while it has work.
// An editor is dropped once its save has run and no newer edit is pending.
type Registry struct {
	delay  time.Duration
	saver  Saver
	target string

	mu      sync.Mutex
	editors map[models.ReflectionKey]*Editor
	closed  bool
}

// NewRegistry creates a registry
func NewRegistry(delay time.Duration, saver Saver, target string) *Registry {
	return &Registry{
		delay:   delay,
		saver:   saver,
		target:  target,
		editors: make(map[models.ReflectionKey]*Editor),
	}
}

// Update records a draft edit
func (r *Registry) Update(key models.ReflectionKey, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	e, ok := r.editors[key]
	if !ok {
		e = NewEditor(key, r.delay, r.saver, r.target)
		e.saved = func() { r.evictIdle(key, e) }
		r.editors[key] = e
	}
	e.Update(content)
	return nil
}

func (r *Registry) evictIdle(key models.ReflectionKey, e *Editor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.editors[key] == e && !e.Pending() {
		delete(r.editors, key)
	}
}

// Len returns the number of editors with scheduled or running saves
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.editors)
}

// Pending reports whether key has a scheduled save
func (r *Registry) Pending(key models.ReflectionKey) bool {
	r.mu.Lock()
	e, ok := r.editors[key]
	r.mu.Unlock()
	return ok && e.Pending()
}

// Discard cancels the pending save of key, waits for one already running and
// forgets the editor. It reports whether a save was cancelled.
func (r *Registry) Discard(key models.ReflectionKey) bool {
	r.mu.Lock()
	e, ok := r.editors[key]
	delete(r.editors, key)
	r.mu.Unlock()
	if !ok {
		return false
	}
	return e.Discard()
}

// Close flushes every pending save and rejects further updates
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	editors := r.editors
	r.editors = make(map[models.ReflectionKey]*Editor)
	r.mu.Unlock()

	flushed := 0
	for _, e := range editors {
		if e.Flush() {
			flushed++
		}
		e.Discard()
	}
	log := logging.With("autosave")
	log.Info().Int("flushed", flushed).Msg("Autosave registry closed")
}
