package service

import (
	"sync"
	"time"

	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/rs/zerolog/log"
)

// RosterService owns the dashboard projection: userID → latest progress slot
// (nil when the user has nothing in flight). LoadAll rebuilds it in full;
// the Progress Tracker patches it on every save/clear so admin views never
// read stale data between rebuilds. All dashboard rendering goes through
// Snapshot — render code must not issue per-user lookups of its own.
type RosterService interface {
	LoadAll(users []model.User) map[uint]*dto.ProgressResponseDTO
	Snapshot() map[uint]*dto.ProgressResponseDTO
	Put(slot *dto.ProgressResponseDTO)
	Remove(userID, courseID uint)
	RemoveUser(userID uint)
	Prune(now time.Time)
}

type rosterService struct {
	progressRepo repository.ProgressRepository
	nowFn        func() time.Time

	mu      sync.RWMutex
	entries map[uint]*dto.ProgressResponseDTO
}

func NewRosterService(progressRepo repository.ProgressRepository) RosterService {
	return &rosterService{
		progressRepo: progressRepo,
		nowFn:        time.Now,
		entries:      make(map[uint]*dto.ProgressResponseDTO),
	}
}

type rosterLoadResult struct {
	userID uint
	slot   *dto.ProgressResponseDTO
}

// LoadAll fetches every user's latest slot concurrently and replaces the
// projection with the result. A failing lookup yields nil for that user only
// and is logged; the rest of the batch proceeds — one bad row must never
// blank the whole dashboard. Ordering between per-user loads is unspecified.
func (s *rosterService) LoadAll(users []model.User) map[uint]*dto.ProgressResponseDTO {
	now := s.nowFn()
	resultsChan := make(chan rosterLoadResult, len(users))
	var wg sync.WaitGroup

	for i := range users {
		wg.Add(1)
		go func(user model.User) {
			defer wg.Done()

			progress, err := s.progressRepo.FindLatestByUser(user.ID)
			if err != nil {
				if !isRecordNotFound(err) {
					log.Warn().Err(err).Uint("userID", user.ID).Msg("Roster load failed for user, degrading to no progress")
				}
				resultsChan <- rosterLoadResult{userID: user.ID, slot: nil}
				return
			}
			if progress.Expired(now) {
				// Lazy deletion on read, same as the tracker's load path.
				if err := s.progressRepo.DeleteByUserAndCourse(user.ID, progress.CourseID); err != nil {
					log.Warn().Err(err).Uint("userID", user.ID).Uint("courseID", progress.CourseID).Msg("Failed to delete expired progress slot during roster load")
				}
				resultsChan <- rosterLoadResult{userID: user.ID, slot: nil}
				return
			}

			slot := progressToDTO(progress)
			slot.UserName = user.Name
			slot.UserDept = user.Department
			resultsChan <- rosterLoadResult{userID: user.ID, slot: slot}
		}(users[i])
	}

	wg.Wait()
	close(resultsChan)

	entries := make(map[uint]*dto.ProgressResponseDTO, len(users))
	for result := range resultsChan {
		entries[result.userID] = result.slot
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	log.Info().Int("users", len(users)).Msg("Roster projection rebuilt")
	return s.Snapshot()
}

// Snapshot returns a point-in-time copy of the projection.
func (s *rosterService) Snapshot() map[uint]*dto.ProgressResponseDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[uint]*dto.ProgressResponseDTO, len(s.entries))
	for userID, slot := range s.entries {
		snapshot[userID] = slot
	}
	return snapshot
}

// Put is the write-through hook: a successful save patches the projection
// immediately so dashboards reflect it without a full rebuild.
func (s *rosterService) Put(slot *dto.ProgressResponseDTO) {
	if slot == nil {
		return
	}
	s.mu.Lock()
	s.entries[slot.UserID] = slot
	s.mu.Unlock()
}

// Remove evicts the cached entry only when it belongs to the given course;
// clearing a stale slot must not drop a fresher one for another course.
func (s *rosterService) Remove(userID, courseID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.entries[userID]; ok && slot != nil && slot.CourseID == courseID {
		s.entries[userID] = nil
	}
}

func (s *rosterService) RemoveUser(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[userID]; ok {
		s.entries[userID] = nil
	}
}

// Prune drops cached slots whose expiry has passed; the sweeper calls it
// after deleting the rows so the projection cannot outlive storage.
func (s *rosterService) Prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, slot := range s.entries {
		if slot != nil && slot.ExpiresAt.Before(now) {
			s.entries[userID] = nil
		}
	}
}
