package model

import (
	"time"

	"gorm.io/datatypes"
)

// Course holds slide and quiz content as opaque JSON documents. Slide order
// inside the document is significant; the tracker never looks inside either.
type Course struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Title        string         `json:"title" gorm:"size:255;not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Slides       datatypes.JSON `json:"slides" gorm:"type:jsonb"`
	Quiz         datatypes.JSON `json:"quiz" gorm:"type:jsonb"`
	PassingScore int            `json:"passingScore" gorm:"default:70"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
