package model

import (
	"time"

	"gorm.io/datatypes"
)

// LearningRecord is an immutable completion fact. Rows are only ever created
// or bulk-deleted by maintenance; repeated attempts accumulate per
// (user, course) pair by design.
type LearningRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `json:"userId" gorm:"not null;index;constraint:OnDelete:CASCADE"`
	User        User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CourseID    uint           `json:"courseId" gorm:"not null;index"`
	Course      Course         `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Score       int            `json:"score" gorm:"not null"`
	Passed      bool           `json:"passed" gorm:"default:false"`
	CompletedAt time.Time      `json:"completedAt" gorm:"autoCreateTime"`
	Answers     datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	TimeSpent   int            `json:"timeSpent" gorm:"default:0"`
}
