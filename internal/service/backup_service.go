package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BackupService dumps and restores the whole dataset as one JSON document.
// Import replaces everything, progress slots included: restoring a backup is
// a reset, not a merge.
type BackupService interface {
	Export() (*dto.BackupDTO, error)
	Import(req dto.BackupDTO) (*dto.ImportResultDTO, error)
	ResetToSeed() (*dto.ImportResultDTO, error)
}

type backupService struct {
	db    *gorm.DB
	nowFn func() time.Time
}

func NewBackupService(db *gorm.DB) BackupService {
	return &backupService{db: db, nowFn: time.Now}
}

func (s *backupService) Export() (*dto.BackupDTO, error) {
	var users []model.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("Failed to export users")
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	var courses []model.Course
	if err := s.db.Order("id ASC").Find(&courses).Error; err != nil {
		log.Error().Err(err).Msg("Failed to export courses")
		return nil, fmt.Errorf("failed to export courses: %w", err)
	}
	var records []model.LearningRecord
	if err := s.db.Order("id ASC").Find(&records).Error; err != nil {
		log.Error().Err(err).Msg("Failed to export learning records")
		return nil, fmt.Errorf("failed to export learning records: %w", err)
	}

	backup := dto.BackupDTO{
		Users:           make([]dto.BackupUserDTO, 0, len(users)),
		Courses:         make([]dto.BackupCourseDTO, 0, len(courses)),
		LearningRecords: make([]dto.BackupRecordDTO, 0, len(records)),
		LastUpdated:     s.nowFn(),
	}
	for _, u := range users {
		backup.Users = append(backup.Users, dto.BackupUserDTO{
			ID:         u.ID,
			Username:   u.Username,
			Password:   u.Password,
			Name:       u.Name,
			Email:      u.Email,
			Role:       u.Role,
			Department: u.Department,
		})
	}
	for _, c := range courses {
		backup.Courses = append(backup.Courses, dto.BackupCourseDTO{
			ID:           c.ID,
			Title:        c.Title,
			Description:  c.Description,
			Slides:       json.RawMessage(c.Slides),
			Quiz:         json.RawMessage(c.Quiz),
			PassingScore: c.PassingScore,
		})
	}
	for _, r := range records {
		backup.LearningRecords = append(backup.LearningRecords, dto.BackupRecordDTO{
			UserID:      r.UserID,
			CourseID:    r.CourseID,
			Score:       r.Score,
			Passed:      r.Passed,
			Answers:     json.RawMessage(r.Answers),
			TimeSpent:   r.TimeSpent,
			CompletedAt: r.CompletedAt,
		})
	}
	return &backup, nil
}

// Import wipes every table and reloads it from the document. Users and
// courses keep their backed-up ids so learning records stay consistent; the
// sequences are moved past the highest imported id afterwards.
func (s *backupService) Import(req dto.BackupDTO) (*dto.ImportResultDTO, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`TRUNCATE users, courses, learning_records, progress RESTART IDENTITY CASCADE`).Error; err != nil {
			return err
		}

		for _, u := range req.Users {
			role := u.Role
			if role == "" {
				role = "user"
			}
			err := tx.Exec(
				`INSERT INTO users (id, username, password, name, email, role, department) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				u.ID, u.Username, u.Password, u.Name, u.Email, role, u.Department,
			).Error
			if err != nil {
				return err
			}
		}

		for _, c := range req.Courses {
			passingScore := c.PassingScore
			if passingScore == 0 {
				passingScore = 70
			}
			err := tx.Exec(
				`INSERT INTO courses (id, title, description, slides, quiz, passing_score) VALUES (?, ?, ?, ?::jsonb, ?::jsonb, ?)`,
				c.ID, c.Title, c.Description, jsonOrEmptyArray(c.Slides), jsonOrEmptyArray(c.Quiz), passingScore,
			).Error
			if err != nil {
				return err
			}
		}

		for _, r := range req.LearningRecords {
			completedAt := r.CompletedAt
			if completedAt.IsZero() {
				completedAt = s.nowFn()
			}
			err := tx.Exec(
				`INSERT INTO learning_records (user_id, course_id, score, passed, answers, time_spent, completed_at) VALUES (?, ?, ?, ?, ?::jsonb, ?, ?)`,
				r.UserID, r.CourseID, r.Score, r.Passed, jsonOrEmptyArray(r.Answers), r.TimeSpent, completedAt,
			).Error
			if err != nil {
				return err
			}
		}

		for _, table := range []string{"users", "courses"} {
			seq := fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`,
				table, table,
			)
			if err := tx.Exec(seq).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Data import failed, rolled back")
		return nil, fmt.Errorf("data import failed: %w", err)
	}

	log.Info().
		Int("users", len(req.Users)).
		Int("courses", len(req.Courses)).
		Int("learningRecords", len(req.LearningRecords)).
		Msg("Data imported")
	return &dto.ImportResultDTO{
		Users:           len(req.Users),
		Courses:         len(req.Courses),
		LearningRecords: len(req.LearningRecords),
	}, nil
}

// ResetToSeed restores the initial state: one administrator, no courses, no
// history.
func (s *backupService) ResetToSeed() (*dto.ImportResultDTO, error) {
	seed := dto.BackupDTO{
		Users: []dto.BackupUserDTO{
			{
				ID:         1,
				Username:   "admin",
				Password:   "admin123",
				Name:       "Akihiko Kaneko",
				Email:      "akihiko.kaneko@example.com",
				Role:       "admin",
				Department: "Operations",
			},
		},
	}
	return s.Import(seed)
}

func jsonOrEmptyArray(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "[]"
	}
	return string(raw)
}
