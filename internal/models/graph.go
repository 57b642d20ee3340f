package models

import "time"

// Position is a node position on the canvas
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphNode is a lesson graph node. Nodes of type "question" can be answered.
type GraphNode struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Label    string                 `json:"label"`
	Position Position               `json:"position"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// GraphEdge connects two nodes
type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
	Label  string `json:"label,omitempty"`
}

// Graph is a lesson's node-and-edge graph
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GameState is the score bookkeeping of a lesson
type GameState struct {
	Score    int             `json:"score"`
	Answered map[string]bool `json:"answered"` // node id -> answered correctly
}

// LessonState is what gets persisted for one user and lesson
type LessonState struct {
	Graph   Graph     `json:"graph"`
	Game    GameState `json:"game"`
	SavedAt time.Time `json:"saved_at"`
}

// AnswerRequest records an answer to a question node
type AnswerRequest struct {
	NodeID  string `json:"node_id" binding:"required"`
	Correct bool   `json:"correct"`
}
