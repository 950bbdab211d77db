package dto

import "time"

// ProgressSaveDTO is the body of a progress save. CourseID identifies the
// slot together with the user id from the path; the whole slot is
// overwritten on every save.
type ProgressSaveDTO struct {
	CourseID     uint              `json:"courseId" binding:"required"`
	CurrentSlide int               `json:"currentSlide" binding:"min=0"`
	QuizStarted  bool              `json:"quizStarted"`
	QuizAnswers  map[string]string `json:"quizAnswers"`
}

// ProgressResponseDTO is the wire shape of a progress slot. CourseID is
// always present and authoritative — clients must not substitute a default.
// UserName and UserDept are denormalized display copies for the resuming UI,
// not sources of truth.
type ProgressResponseDTO struct {
	UserID       uint              `json:"userId"`
	CourseID     uint              `json:"courseId"`
	CurrentSlide int               `json:"currentSlide"`
	QuizStarted  bool              `json:"quizStarted"`
	QuizAnswers  map[string]string `json:"quizAnswers"`
	ExpiresAt    time.Time         `json:"expiresAt"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	UserName     string            `json:"userName,omitempty"`
	UserDept     string            `json:"userDept,omitempty"`
	CourseTitle  string            `json:"courseTitle,omitempty"`
}

// CleanupResultDTO reports how many expired slots a sweep removed.
type CleanupResultDTO struct {
	Deleted int64 `json:"deleted"`
}
