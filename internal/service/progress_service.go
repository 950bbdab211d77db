package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressTrackerService owns the resumable per-(user, course) state.
//
// Saves are last-write-wins upserts with a fixed TTL; loads enforce expiry
// lazily; Resume picks the most recently active course and refuses with
// ErrCourseGone when that course has since been deleted. Every successful
// mutation is written through to the roster projection.
type ProgressTrackerService interface {
	Save(userID uint, req dto.ProgressSaveDTO) (*dto.ProgressResponseDTO, error)
	Load(userID, courseID uint) (*dto.ProgressResponseDTO, error)
	Resume(userID uint) (*dto.ProgressResponseDTO, error)
	Clear(userID, courseID uint) error
	ClearAll(userID uint) error
	CleanupExpired() (int64, error)
}

type progressTrackerService struct {
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
	courseRepo   repository.CourseRepository
	roster       RosterService
	ttl          time.Duration
	nowFn        func() time.Time
}

func NewProgressTrackerService(
	progressRepo repository.ProgressRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	roster RosterService,
	ttl time.Duration,
) ProgressTrackerService {
	return &progressTrackerService{
		progressRepo: progressRepo,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		roster:       roster,
		ttl:          ttl,
		nowFn:        time.Now,
	}
}

// Save overwrites the slot for (userID, courseID) atomically and returns the
// persisted state. A storage error is surfaced to the caller as-is — it must
// never be mistaken for success, because the user has to be warned that their
// position may not have been saved.
func (s *progressTrackerService) Save(userID uint, req dto.ProgressSaveDTO) (*dto.ProgressResponseDTO, error) {
	now := s.nowFn()
	progress := model.Progress{
		UserID:       userID,
		CourseID:     req.CourseID,
		CurrentSlide: req.CurrentSlide,
		QuizStarted:  req.QuizStarted,
		QuizAnswers:  datatypes.NewJSONType(req.QuizAnswers),
		ExpiresAt:    now.Add(s.ttl),
	}

	if err := s.progressRepo.Upsert(&progress); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", req.CourseID).Msg("Failed to save progress")
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	// Re-read so the returned payload carries the stored timestamps, not the
	// in-memory ones the conflict clause may have discarded.
	persisted, err := s.progressRepo.FindByUserAndCourse(userID, req.CourseID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", req.CourseID).Msg("Failed to reload saved progress")
		return nil, fmt.Errorf("failed to reload saved progress: %w", err)
	}

	slot := progressToDTO(persisted)
	s.attachUserFields(slot, userID)
	s.roster.Put(slot)
	return slot, nil
}

// Load returns the resume payload for one (user, course) pair. An expired
// slot is deleted on the way out and reported as absent; the payload always
// carries courseId, authoritative over any caller-side default.
func (s *progressTrackerService) Load(userID, courseID uint) (*dto.ProgressResponseDTO, error) {
	progress, err := s.progressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrProgressNotFound
		}
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", courseID).Msg("Failed to load progress")
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	if progress.Expired(s.nowFn()) {
		s.discardSlot(userID, courseID, "expired")
		return nil, ErrProgressNotFound
	}

	slot := progressToDTO(progress)
	s.attachUserFields(slot, userID)
	return slot, nil
}

// Resume determines the most recently active course for a user at login.
// An expired latest slot does not end the search: it is discarded and the
// next most recent slot is considered, so an older valid course still
// resumes. A slot pointing at a deleted course is a data-integrity failure:
// the stale slot is cleared and the caller gets ErrCourseGone, never a
// silent restart from slide zero.
func (s *progressTrackerService) Resume(userID uint) (*dto.ProgressResponseDTO, error) {
	for {
		progress, err := s.progressRepo.FindLatestByUser(userID)
		if err != nil {
			if isRecordNotFound(err) {
				return nil, ErrProgressNotFound
			}
			log.Error().Err(err).Uint("userID", userID).Msg("Failed to find latest progress")
			return nil, fmt.Errorf("failed to find latest progress: %w", err)
		}

		if progress.Expired(s.nowFn()) {
			// If the dead row cannot be deleted, stop rather than refetch it
			// forever; the sweep will retry the delete.
			if err := s.discardSlot(userID, progress.CourseID, "expired"); err != nil {
				return nil, ErrProgressNotFound
			}
			continue
		}

		course, err := s.courseRepo.FindByID(progress.CourseID)
		if err != nil {
			if isRecordNotFound(err) {
				log.Warn().Uint("userID", userID).Uint("courseID", progress.CourseID).Msg("Progress slot references a deleted course, clearing")
				s.discardSlot(userID, progress.CourseID, "course gone")
				return nil, ErrCourseGone
			}
			log.Error().Err(err).Uint("courseID", progress.CourseID).Msg("Failed to resolve course for resume")
			return nil, fmt.Errorf("failed to resolve course for resume: %w", err)
		}

		slot := progressToDTO(progress)
		slot.CourseTitle = course.Title
		s.attachUserFields(slot, userID)
		return slot, nil
	}
}

// Clear deletes one slot unconditionally; clearing an absent slot is fine.
func (s *progressTrackerService) Clear(userID, courseID uint) error {
	if err := s.progressRepo.DeleteByUserAndCourse(userID, courseID); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", courseID).Msg("Failed to clear progress")
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	s.roster.Remove(userID, courseID)
	return nil
}

// ClearAll deletes every slot a user holds (admin reset, or course-agnostic
// client clear).
func (s *progressTrackerService) ClearAll(userID uint) error {
	if err := s.progressRepo.DeleteAllByUser(userID); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to clear all progress")
		return fmt.Errorf("failed to clear all progress: %w", err)
	}
	s.roster.RemoveUser(userID)
	return nil
}

// CleanupExpired sweeps slots whose expiry has passed and prunes the roster
// projection to match. Expiry itself is enforced lazily on reads; the sweep
// just keeps the table from accumulating dead rows.
func (s *progressTrackerService) CleanupExpired() (int64, error) {
	now := s.nowFn()
	deleted, err := s.progressRepo.DeleteExpired(now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete expired progress")
		return 0, fmt.Errorf("failed to delete expired progress: %w", err)
	}
	s.roster.Prune(now)
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Expired progress slots removed")
	}
	return deleted, nil
}

func (s *progressTrackerService) discardSlot(userID, courseID uint, reason string) error {
	err := s.progressRepo.DeleteByUserAndCourse(userID, courseID)
	if err != nil {
		// The slot stays dead either way: reads treat it as absent, and the
		// next sweep retries the delete.
		log.Warn().Err(err).Uint("userID", userID).Uint("courseID", courseID).Str("reason", reason).Msg("Failed to delete stale progress slot")
	}
	s.roster.Remove(userID, courseID)
	return err
}

func (s *progressTrackerService) attachUserFields(slot *dto.ProgressResponseDTO, userID uint) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		// Display-only fields; the payload is still complete without them.
		log.Warn().Err(err).Uint("userID", userID).Msg("Failed to load user display fields for progress payload")
		return
	}
	slot.UserName = user.Name
	slot.UserDept = user.Department
}

func progressToDTO(p *model.Progress) *dto.ProgressResponseDTO {
	answers := p.QuizAnswers.Data()
	if answers == nil {
		answers = map[string]string{}
	}
	return &dto.ProgressResponseDTO{
		UserID:       p.UserID,
		CourseID:     p.CourseID,
		CurrentSlide: p.CurrentSlide,
		QuizStarted:  p.QuizStarted,
		QuizAnswers:  answers,
		ExpiresAt:    p.ExpiresAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
