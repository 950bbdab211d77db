package service

import (
	"encoding/json"
	"fmt"

	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LearningRecordService exposes the append-only completion history.
type LearningRecordService interface {
	Create(req dto.LearningRecordCreateDTO) (*dto.LearningRecordResponseDTO, error)
	GetAll() ([]dto.LearningRecordResponseDTO, error)
	GetByUser(userID uint) ([]dto.LearningRecordResponseDTO, error)
}

type learningRecordService struct {
	recordRepo repository.LearningRecordRepository
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
}

func NewLearningRecordService(
	recordRepo repository.LearningRecordRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
) LearningRecordService {
	return &learningRecordService{
		recordRepo: recordRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
	}
}

func (s *learningRecordService) Create(req dto.LearningRecordCreateDTO) (*dto.LearningRecordResponseDTO, error) {
	if _, err := s.userRepo.FindByID(req.UserID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	if _, err := s.courseRepo.FindByID(req.CourseID); err != nil {
		if isRecordNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to resolve course: %w", err)
	}

	record := model.LearningRecord{
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		Score:     req.Score,
		Passed:    req.Passed,
		Answers:   datatypes.JSON(req.Answers),
		TimeSpent: req.TimeSpent,
	}
	if err := s.recordRepo.Create(&record); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Uint("courseID", req.CourseID).Msg("Failed to create learning record")
		return nil, fmt.Errorf("failed to create learning record: %w", err)
	}

	resp := recordToDTO(repository.LearningRecordWithDetails{LearningRecord: record})
	return &resp, nil
}

func (s *learningRecordService) GetAll() ([]dto.LearningRecordResponseDTO, error) {
	rows, err := s.recordRepo.FindAllWithDetails()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch learning records")
		return nil, fmt.Errorf("failed to fetch learning records: %w", err)
	}
	return recordsToDTOs(rows), nil
}

func (s *learningRecordService) GetByUser(userID uint) ([]dto.LearningRecordResponseDTO, error) {
	rows, err := s.recordRepo.FindByUserWithDetails(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to fetch learning records for user")
		return nil, fmt.Errorf("failed to fetch learning records for user: %w", err)
	}
	return recordsToDTOs(rows), nil
}

// RecordMaintenanceService collapses the retake history. Both operations run
// in a transaction: either every deletion in the batch applies or none do.
type RecordMaintenanceService interface {
	DuplicateReport() (*dto.DuplicateReportDTO, error)
	KeepLatestOnly() (*dto.CollapseResultDTO, error)
	ResetAll() (*dto.CollapseResultDTO, error)
}

type recordMaintenanceService struct {
	recordRepo repository.LearningRecordRepository
	db         *gorm.DB
}

func NewRecordMaintenanceService(recordRepo repository.LearningRecordRepository, db *gorm.DB) RecordMaintenanceService {
	return &recordMaintenanceService{recordRepo: recordRepo, db: db}
}

// DuplicateReport recomputes the (user, course) groups holding more than one
// record. Always fresh — records accumulate between runs.
func (s *recordMaintenanceService) DuplicateReport() (*dto.DuplicateReportDTO, error) {
	groups, err := s.recordRepo.FindDuplicateGroups()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute duplicate report")
		return nil, fmt.Errorf("failed to compute duplicate report: %w", err)
	}

	report := dto.DuplicateReportDTO{Groups: make([]dto.DuplicateGroupDTO, 0, len(groups))}
	for _, g := range groups {
		report.Groups = append(report.Groups, dto.DuplicateGroupDTO{
			UserID:   g.UserID,
			CourseID: g.CourseID,
			Count:    g.Count,
		})
	}
	report.Total = len(report.Groups)
	return &report, nil
}

// KeepLatestOnly retains, per (user, course) group, only the record with the
// maximum completion timestamp and deletes the rest.
func (s *recordMaintenanceService) KeepLatestOnly() (*dto.CollapseResultDTO, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			DELETE FROM learning_records
			WHERE id NOT IN (
				SELECT DISTINCT ON (user_id, course_id) id
				FROM learning_records
				ORDER BY user_id, course_id, completed_at DESC
			)`)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Keep-latest collapse failed, rolled back")
		return nil, fmt.Errorf("keep-latest collapse failed: %w", err)
	}

	remaining, err := s.recordRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count remaining records: %w", err)
	}
	log.Info().Int64("deleted", deleted).Int64("remaining", remaining).Msg("Learning records collapsed to latest per user/course")
	return &dto.CollapseResultDTO{Deleted: deleted, Remaining: remaining}, nil
}

// ResetAll wipes the completion history. Destructive; admin-invoked only.
func (s *recordMaintenanceService) ResetAll() (*dto.CollapseResultDTO, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`DELETE FROM learning_records`)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Learning record reset failed, rolled back")
		return nil, fmt.Errorf("learning record reset failed: %w", err)
	}

	log.Info().Int64("deleted", deleted).Msg("All learning records deleted")
	return &dto.CollapseResultDTO{Deleted: deleted, Remaining: 0}, nil
}

func recordsToDTOs(rows []repository.LearningRecordWithDetails) []dto.LearningRecordResponseDTO {
	dtos := make([]dto.LearningRecordResponseDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, recordToDTO(row))
	}
	return dtos
}

func recordToDTO(row repository.LearningRecordWithDetails) dto.LearningRecordResponseDTO {
	status := "failed"
	if row.Passed {
		status = "completed"
	}
	totalQuestions := row.TotalQuestions
	if totalQuestions == 0 {
		totalQuestions = 10
	}
	return dto.LearningRecordResponseDTO{
		ID:             row.ID,
		UserID:         row.UserID,
		CourseID:       row.CourseID,
		Score:          row.Score,
		Passed:         row.Passed,
		CompletedAt:    row.CompletedAt,
		Answers:        json.RawMessage(row.Answers),
		TimeSpent:      row.TimeSpent,
		UserName:       row.UserName,
		UserDept:       row.UserDept,
		CourseTitle:    row.CourseTitle,
		Status:         status,
		CorrectCount:   row.Score,
		TotalQuestions: totalQuestions,
	}
}
