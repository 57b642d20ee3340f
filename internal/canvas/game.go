package canvas

import "github.com/jengzang/thinking-wizard-backend-go/internal/models"

// PointsPerAnswer is awarded for the first correct answer on a question node
const PointsPerAnswer = 10

// QuestionNodeType marks nodes that can be answered
const QuestionNodeType = "question"

// scoreAnswer applies an answer to state and reports whether it scored.
// Wrong answers leave the node open; a node never scores twice.
func scoreAnswer(state *models.GameState, nodeID string, correct bool) bool {
	if !correct || state.Answered[nodeID] {
		return false
	}
	if state.Answered == nil {
		state.Answered = make(map[string]bool)
	}
	state.Answered[nodeID] = true
	state.Score += PointsPerAnswer
	return true
}

// progress is answered question nodes over all question nodes of g
func progress(g models.Graph, state models.GameState) float64 {
	total, answered := 0, 0
	for _, n := range g.Nodes {
		if n.Type != QuestionNodeType {
			continue
		}
		total++
		if state.Answered[n.ID] {
			answered++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(answered) / float64(total)
}
