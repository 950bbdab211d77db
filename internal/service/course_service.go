package service

import (
	"encoding/json"
	"fmt"

	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type CourseService interface {
	GetAll() ([]dto.CourseSummaryDTO, error)
	GetByID(id uint) (*dto.CourseResponseDTO, error)
	Create(req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error)
	Update(id uint, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error)
	Delete(id uint) error
}

type courseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) GetAll() ([]dto.CourseSummaryDTO, error) {
	courses, err := s.courseRepo.FindAllSummaries()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch courses")
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	dtos := make([]dto.CourseSummaryDTO, 0, len(courses))
	for _, course := range courses {
		dtos = append(dtos, dto.CourseSummaryDTO{
			ID:           course.ID,
			Title:        course.Title,
			Description:  course.Description,
			PassingScore: course.PassingScore,
			CreatedAt:    course.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *courseService) GetByID(id uint) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrCourseNotFound
		}
		log.Error().Err(err).Uint("courseID", id).Msg("Failed to fetch course")
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	resp := courseToDTO(course)
	return &resp, nil
}

func (s *courseService) Create(req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error) {
	passingScore := 70
	if req.PassingScore != nil {
		passingScore = *req.PassingScore
	}
	course := model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Slides:       datatypes.JSON(req.Slides),
		Quiz:         datatypes.JSON(req.Quiz),
		PassingScore: passingScore,
	}
	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create course")
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	resp := courseToDTO(&course)
	return &resp, nil
}

func (s *courseService) Update(id uint, req dto.CourseCreateDTO) (*dto.CourseResponseDTO, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Slides = datatypes.JSON(req.Slides)
	course.Quiz = datatypes.JSON(req.Quiz)
	if req.PassingScore != nil {
		course.PassingScore = *req.PassingScore
	}

	if err := s.courseRepo.Update(course); err != nil {
		log.Error().Err(err).Uint("courseID", id).Msg("Failed to update course")
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	resp := courseToDTO(course)
	return &resp, nil
}

func (s *courseService) Delete(id uint) error {
	if err := s.courseRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("courseID", id).Msg("Failed to delete course")
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func courseToDTO(course *model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		Slides:       json.RawMessage(course.Slides),
		Quiz:         json.RawMessage(course.Quiz),
		PassingScore: course.PassingScore,
		CreatedAt:    course.CreatedAt,
		UpdatedAt:    course.UpdatedAt,
	}
}
