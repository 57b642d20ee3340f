package models

import "time"

// ReflectionKey identifies one reflection
type ReflectionKey struct {
	UserID        string `json:"user_id"`
	SessionNumber int    `json:"session_number"`
	LectureNumber int    `json:"lecture_number"`
}

// Reflection is a student's written reflection on a lecture
type Reflection struct {
	ReflectionKey
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReflectionRequest is the body of reflection writes
type ReflectionRequest struct {
	Content string `json:"content"`
}
