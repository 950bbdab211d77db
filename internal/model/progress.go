package model

import (
	"time"

	"gorm.io/datatypes"
)

// Progress is the single resumable slot for one user in one course.
// UNIQUE(user_id, course_id) is the key invariant: saves are upserts against
// that pair, last write wins, no field merge. A row whose ExpiresAt has
// passed is dead weight — read paths delete it and report "no progress".
type Progress struct {
	ID           uint                                  `gorm:"primarykey" json:"id"`
	UserID       uint                                  `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	User         User                                  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CourseID     uint                                  `json:"courseId" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	CurrentSlide int                                   `json:"currentSlide" gorm:"default:0"`
	QuizStarted  bool                                  `json:"quizStarted" gorm:"default:false"`
	QuizAnswers  datatypes.JSONType[map[string]string] `json:"quizAnswers" gorm:"type:jsonb"`
	ExpiresAt    time.Time                             `json:"expiresAt"`
	CreatedAt    time.Time                             `json:"createdAt"`
	UpdatedAt    time.Time                             `json:"updatedAt"`
}

// TableName keeps the original singular table name; other tooling reads it.
func (Progress) TableName() string {
	return "progress"
}

// Expired reports whether the slot is past its wall-clock expiry. The clock
// value is authoritative regardless of whether the sweeper has run yet.
func (p *Progress) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && p.ExpiresAt.Before(now)
}
