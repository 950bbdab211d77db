package dto

import (
	"encoding/json"
	"time"
)

// BackupDTO is the full-dataset exchange document for export and import,
// compatible with the JSON files the file-based deployments passed around.
// Progress slots are deliberately excluded: resume state is ephemeral and
// expires on its own.
type BackupDTO struct {
	Users           []BackupUserDTO   `json:"users"`
	Courses         []BackupCourseDTO `json:"courses"`
	LearningRecords []BackupRecordDTO `json:"learningRecords"`
	LastUpdated     time.Time         `json:"lastUpdated"`
}

// BackupUserDTO carries the password so a restored dataset keeps its logins.
type BackupUserDTO struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type BackupCourseDTO struct {
	ID           uint            `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Slides       json.RawMessage `json:"slides,omitempty"`
	Quiz         json.RawMessage `json:"quiz,omitempty"`
	PassingScore int             `json:"passingScore"`
}

type BackupRecordDTO struct {
	UserID      uint            `json:"userId"`
	CourseID    uint            `json:"courseId"`
	Score       int             `json:"score"`
	Passed      bool            `json:"passed"`
	Answers     json.RawMessage `json:"answers,omitempty"`
	TimeSpent   int             `json:"timeSpent"`
	CompletedAt time.Time       `json:"completedAt"`
}

type ImportResultDTO struct {
	Users           int `json:"users"`
	Courses         int `json:"courses"`
	LearningRecords int `json:"learningRecords"`
}
