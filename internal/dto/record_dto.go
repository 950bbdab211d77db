package dto

import (
	"encoding/json"
	"time"
)

type LearningRecordCreateDTO struct {
	UserID    uint            `json:"userId" binding:"required"`
	CourseID  uint            `json:"courseId" binding:"required"`
	Score     int             `json:"score" binding:"min=0"`
	Passed    bool            `json:"passed"`
	Answers   json.RawMessage `json:"answers"`
	TimeSpent int             `json:"timeSpent" binding:"min=0"`
}

// LearningRecordResponseDTO is the admin-table projection: the record itself
// plus joined user/course display fields and derived status columns.
type LearningRecordResponseDTO struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"userId"`
	CourseID       uint            `json:"courseId"`
	Score          int             `json:"score"`
	Passed         bool            `json:"passed"`
	CompletedAt    time.Time       `json:"completedAt"`
	Answers        json.RawMessage `json:"answers,omitempty"`
	TimeSpent      int             `json:"timeSpent"`
	UserName       string          `json:"userName,omitempty"`
	UserDept       string          `json:"userDept,omitempty"`
	CourseTitle    string          `json:"courseTitle,omitempty"`
	Status         string          `json:"status"` // "completed" or "failed"
	CorrectCount   int             `json:"correctCount"`
	TotalQuestions int             `json:"totalQuestions"`
}

// DuplicateGroupDTO is one (user, course) pair holding more than one
// completion record.
type DuplicateGroupDTO struct {
	UserID   uint  `json:"userId"`
	CourseID uint  `json:"courseId"`
	Count    int64 `json:"count"`
}

type DuplicateReportDTO struct {
	Groups []DuplicateGroupDTO `json:"groups"`
	Total  int                 `json:"total"`
}

// CollapseResultDTO reports a keep-latest or full-reset maintenance run.
type CollapseResultDTO struct {
	Deleted   int64 `json:"deleted"`
	Remaining int64 `json:"remaining"`
}
