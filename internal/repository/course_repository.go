package repository

import (
	"github.com/mkaneko/traintrack/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindAll() ([]model.Course, error)
	FindAllSummaries() ([]model.Course, error)
	Update(course *model.Course) error
	Delete(id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindAll() ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindAllSummaries skips the slides/quiz JSONB payloads, which dominate row
// size once decks carry embedded images.
func (r *courseRepository) FindAllSummaries() ([]model.Course, error) {
	var courses []model.Course
	err := r.db.
		Select("id", "title", "description", "passing_score", "created_at", "updated_at").
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&model.Course{}, id).Error
}
