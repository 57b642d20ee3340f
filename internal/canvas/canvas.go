// Package canvas keeps lesson graphs and their game state in memory and
// persists them to the local store.
package canvas

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
)

// Canvas is one user's graph for one lesson
type Canvas struct {
	mu      sync.Mutex
	state   models.LessonState
	version uint64 // bumped by every change
	saved   uint64 // version last persisted
}

func newCanvas(state models.LessonState) *Canvas {
	if state.Graph.Nodes == nil {
		state.Graph.Nodes = []models.GraphNode{}
	}
	if state.Graph.Edges == nil {
		state.Graph.Edges = []models.GraphEdge{}
	}
	if state.Game.Answered == nil {
		state.Game.Answered = make(map[string]bool)
	}
	return &Canvas{state: state}
}

// State returns a copy of the graph and game state
func (c *Canvas) State() models.LessonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyState(c.state)
}

// SetGraph replaces the graph. Missing node and edge IDs are generated;
// edges must connect existing nodes.
func (c *Canvas) SetGraph(g models.Graph) (models.Graph, error) {
	nodes := make([]models.GraphNode, len(g.Nodes))
	ids := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if ids[n.ID] {
			return models.Graph{}, fmt.Errorf("%w: duplicate node id %q", models.ErrInvalidInput, n.ID)
		}
		ids[n.ID] = true
		nodes[i] = n
	}

	edges := make([]models.GraphEdge, len(g.Edges))
	for i, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return models.Graph{}, fmt.Errorf("%w: edge %q references an unknown node", models.ErrInvalidInput, e.ID)
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		edges[i] = e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Graph = models.Graph{Nodes: nodes, Edges: edges}
	// Answers to removed nodes no longer count towards progress but keep their score
	c.version++
	return copyState(c.state).Graph, nil
}

// AnswerResult is the outcome of Answer
type AnswerResult struct {
	Scored   bool    `json:"scored"`
	Score    int     `json:"score"`
	Progress float64 `json:"progress"`
}

// Answer records an answer on a question node
func (c *Canvas) Answer(nodeID string, correct bool) (AnswerResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := false
	for _, n := range c.state.Graph.Nodes {
		if n.ID == nodeID {
			if n.Type != QuestionNodeType {
				return AnswerResult{}, fmt.Errorf("%w: node %q is not a question", models.ErrInvalidInput, nodeID)
			}
			found = true
			break
		}
	}
	if !found {
		return AnswerResult{}, fmt.Errorf("%w: node %q", models.ErrNotFound, nodeID)
	}

	scored := scoreAnswer(&c.state.Game, nodeID, correct)
	if scored {
		c.version++
	}
	return AnswerResult{
		Scored:   scored,
		Score:    c.state.Game.Score,
		Progress: progress(c.state.Graph, c.state.Game),
	}, nil
}

// Progress is the share of answered question nodes
func (c *Canvas) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progress(c.state.Graph, c.state.Game)
}

// Dirty reports whether there are unsaved changes
func (c *Canvas) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version != c.saved
}

// snapshot returns the state to persist and the version it represents
func (c *Canvas) snapshot(now time.Time) (models.LessonState, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := copyState(c.state)
	s.SavedAt = now
	return s, c.version
}

// markSaved records that version was persisted
func (c *Canvas) markSaved(version uint64, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version > c.saved {
		c.saved = version
		c.state.SavedAt = at
	}
}

func copyState(s models.LessonState) models.LessonState {
	out := s
	out.Graph.Nodes = append([]models.GraphNode{}, s.Graph.Nodes...)
	out.Graph.Edges = append([]models.GraphEdge{}, s.Graph.Edges...)
	out.Game.Answered = make(map[string]bool, len(s.Game.Answered))
	for k, v := range s.Game.Answered {
		out.Game.Answered[k] = v
	}
	return out
}
