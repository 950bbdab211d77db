package repository

import (
	"github.com/mkaneko/traintrack/internal/model"
	"gorm.io/gorm"
)

// LearningRecordWithDetails is the admin-table row: a record joined with its
// user and course display fields.
type LearningRecordWithDetails struct {
	model.LearningRecord
	UserName       string
	UserDept       string
	CourseTitle    string
	TotalQuestions int
}

// DuplicateGroup is a (user, course) pair with more than one completion
// record. Counts are always computed fresh; records grow between runs.
type DuplicateGroup struct {
	UserID   uint
	CourseID uint
	Count    int64
}

type LearningRecordRepository interface {
	Create(record *model.LearningRecord) error
	FindAllWithDetails() ([]LearningRecordWithDetails, error)
	FindByUserWithDetails(userID uint) ([]LearningRecordWithDetails, error)
	FindDuplicateGroups() ([]DuplicateGroup, error)
	Count() (int64, error)
}

type learningRecordRepository struct {
	db *gorm.DB
}

func NewLearningRecordRepository(db *gorm.DB) LearningRecordRepository {
	return &learningRecordRepository{db: db}
}

func (r *learningRecordRepository) Create(record *model.LearningRecord) error {
	return r.db.Create(record).Error
}

const recordDetailsSelect = `learning_records.*,
	u.name AS user_name,
	u.department AS user_dept,
	c.title AS course_title,
	CASE WHEN c.quiz IS NOT NULL THEN jsonb_array_length(c.quiz) ELSE 10 END AS total_questions`

func (r *learningRecordRepository) FindAllWithDetails() ([]LearningRecordWithDetails, error) {
	var rows []LearningRecordWithDetails
	err := r.db.Model(&model.LearningRecord{}).
		Select(recordDetailsSelect).
		Joins("LEFT JOIN users u ON learning_records.user_id = u.id").
		Joins("LEFT JOIN courses c ON learning_records.course_id = c.id").
		Order("learning_records.completed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *learningRecordRepository) FindByUserWithDetails(userID uint) ([]LearningRecordWithDetails, error) {
	var rows []LearningRecordWithDetails
	err := r.db.Model(&model.LearningRecord{}).
		Select(recordDetailsSelect).
		Joins("LEFT JOIN users u ON learning_records.user_id = u.id").
		Joins("LEFT JOIN courses c ON learning_records.course_id = c.id").
		Where("learning_records.user_id = ?", userID).
		Order("learning_records.completed_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *learningRecordRepository) FindDuplicateGroups() ([]DuplicateGroup, error) {
	var groups []DuplicateGroup
	err := r.db.Model(&model.LearningRecord{}).
		Select("user_id, course_id, COUNT(*) AS count").
		Group("user_id, course_id").
		Having("COUNT(*) > 1").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *learningRecordRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.LearningRecord{}).Count(&count).Error
	return count, err
}
