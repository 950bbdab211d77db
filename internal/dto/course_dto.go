package dto

import (
	"encoding/json"
	"time"
)

// Slide and quiz payloads stay opaque: they pass through as raw JSON and the
// backend never inspects them.
type CourseCreateDTO struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Slides       json.RawMessage `json:"slides"`
	Quiz         json.RawMessage `json:"quiz"`
	PassingScore *int            `json:"passingScore" binding:"omitempty,min=0,max=100"`
}

type CourseResponseDTO struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Slides       json.RawMessage `json:"slides,omitempty"`
	Quiz         json.RawMessage `json:"quiz,omitempty"`
	PassingScore int             `json:"passingScore"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CourseSummaryDTO lists courses without their slide/quiz payloads, which can
// be large (embedded slide images in the original data).
type CourseSummaryDTO struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	PassingScore int       `json:"passingScore"`
	CreatedAt    time.Time `json:"createdAt"`
}
