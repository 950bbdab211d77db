package repository

import (
	"time"

	"github.com/mkaneko/traintrack/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Upsert(progress *model.Progress) error
	FindByUserAndCourse(userID, courseID uint) (*model.Progress, error)
	FindLatestByUser(userID uint) (*model.Progress, error)
	DeleteByUserAndCourse(userID, courseID uint) error
	DeleteAllByUser(userID uint) error
	DeleteExpired(now time.Time) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert writes the slot atomically keyed on (user_id, course_id). The
// conflict clause is the serialization point for racing saves: either write
// may win, but the losing one can never leave a second row or a partial
// merge behind.
func (r *progressRepository) Upsert(progress *model.Progress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_slide", "quiz_started", "quiz_answers", "expires_at", "updated_at",
		}),
	}).Create(progress).Error
}

func (r *progressRepository) FindByUserAndCourse(userID, courseID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// FindLatestByUser returns the most recently touched slot for a user; callers
// use it to decide which course a login should resume into.
func (r *progressRepository) FindLatestByUser(userID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *progressRepository) DeleteByUserAndCourse(userID, courseID uint) error {
	return r.db.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&model.Progress{}).Error
}

func (r *progressRepository) DeleteAllByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Progress{}).Error
}

func (r *progressRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&model.Progress{})
	return result.RowsAffected, result.Error
}
