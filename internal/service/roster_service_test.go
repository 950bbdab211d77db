package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// rosterProgressRepo serves per-user canned slots and can fail individual
// lookups, which is what the batch-isolation tests need. Deletes are
// recorded under a lock because LoadAll calls them from its worker
// goroutines.
type rosterProgressRepo struct {
	slots   map[uint]*model.Progress
	failFor map[uint]error

	mu      sync.Mutex
	deleted [][2]uint
}

func (m *rosterProgressRepo) Upsert(p *model.Progress) error { return nil }

func (m *rosterProgressRepo) FindByUserAndCourse(userID, courseID uint) (*model.Progress, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *rosterProgressRepo) FindLatestByUser(userID uint) (*model.Progress, error) {
	if err, ok := m.failFor[userID]; ok {
		return nil, err
	}
	if slot, ok := m.slots[userID]; ok {
		return slot, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *rosterProgressRepo) DeleteByUserAndCourse(userID, courseID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, [2]uint{userID, courseID})
	return nil
}
func (m *rosterProgressRepo) DeleteAllByUser(userID uint) error                 { return nil }
func (m *rosterProgressRepo) DeleteExpired(now time.Time) (int64, error)        { return 0, nil }

func rosterUsers(ids ...uint) []model.User {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, model.User{ID: id, Name: "User", Department: "Dept"})
	}
	return users
}

func TestRoster_LoadAllIsolatesFailures(t *testing.T) {
	future := time.Now().Add(time.Hour)
	repo := &rosterProgressRepo{
		slots: map[uint]*model.Progress{
			1: {UserID: 1, CourseID: 10, CurrentSlide: 2, ExpiresAt: future},
			2: {UserID: 2, CourseID: 11, CurrentSlide: 5, ExpiresAt: future},
			4: {UserID: 4, CourseID: 10, CurrentSlide: 9, ExpiresAt: future},
			5: {UserID: 5, CourseID: 12, CurrentSlide: 1, ExpiresAt: future},
		},
		failFor: map[uint]error{3: errors.New("query canceled")},
	}
	roster := NewRosterService(repo)

	projection := roster.LoadAll(rosterUsers(1, 2, 3, 4, 5))

	// One failing lookup degrades that user only; the batch still yields an
	// entry per user.
	require.Len(t, projection, 5)
	assert.Nil(t, projection[3])
	for _, id := range []uint{1, 2, 4, 5} {
		require.NotNil(t, projection[id], "user %d", id)
	}
	assert.Equal(t, uint(11), projection[2].CourseID)
	assert.Equal(t, 9, projection[4].CurrentSlide)
}

func TestRoster_LoadAllTreatsMissingAndExpiredAsNoProgress(t *testing.T) {
	now := time.Now()
	repo := &rosterProgressRepo{
		slots: map[uint]*model.Progress{
			1: {UserID: 1, CourseID: 10, ExpiresAt: now.Add(time.Hour)},
			2: {UserID: 2, CourseID: 11, ExpiresAt: now.Add(-time.Minute)},
		},
	}
	roster := NewRosterService(repo)

	projection := roster.LoadAll(rosterUsers(1, 2, 3))

	require.Len(t, projection, 3)
	assert.NotNil(t, projection[1])
	assert.Nil(t, projection[2], "expired slot must not surface")
	assert.Nil(t, projection[3], "user with no slot")

	// The expired row is deleted on read, not just hidden until the sweep.
	require.Len(t, repo.deleted, 1)
	assert.Equal(t, [2]uint{2, 11}, repo.deleted[0])
}

func TestRoster_LoadAllAttachesUserDisplayFields(t *testing.T) {
	repo := &rosterProgressRepo{
		slots: map[uint]*model.Progress{
			1: {UserID: 1, CourseID: 10, ExpiresAt: time.Now().Add(time.Hour)},
		},
	}
	roster := NewRosterService(repo)

	users := []model.User{{ID: 1, Name: "Yui Sato", Department: "HR"}}
	projection := roster.LoadAll(users)

	require.NotNil(t, projection[1])
	assert.Equal(t, "Yui Sato", projection[1].UserName)
	assert.Equal(t, "HR", projection[1].UserDept)
}

func TestRoster_PutPatchesSnapshot(t *testing.T) {
	roster := NewRosterService(&rosterProgressRepo{})

	roster.Put(&dto.ProgressResponseDTO{UserID: 7, CourseID: 3, CurrentSlide: 4})

	snapshot := roster.Snapshot()
	require.NotNil(t, snapshot[7])
	assert.Equal(t, uint(3), snapshot[7].CourseID)

	// A later save for the same user replaces the entry.
	roster.Put(&dto.ProgressResponseDTO{UserID: 7, CourseID: 8, CurrentSlide: 1})
	assert.Equal(t, uint(8), roster.Snapshot()[7].CourseID)
}

func TestRoster_RemoveOnlyEvictsMatchingCourse(t *testing.T) {
	roster := NewRosterService(&rosterProgressRepo{})
	roster.Put(&dto.ProgressResponseDTO{UserID: 7, CourseID: 3})

	// Clearing a different course must not drop the cached slot.
	roster.Remove(7, 99)
	require.NotNil(t, roster.Snapshot()[7])

	roster.Remove(7, 3)
	assert.Nil(t, roster.Snapshot()[7])
}

func TestRoster_RemoveUser(t *testing.T) {
	roster := NewRosterService(&rosterProgressRepo{})
	roster.Put(&dto.ProgressResponseDTO{UserID: 7, CourseID: 3})

	roster.RemoveUser(7)
	snapshot := roster.Snapshot()
	_, present := snapshot[7]
	assert.True(t, present, "user stays in the projection")
	assert.Nil(t, snapshot[7])
}

func TestRoster_PruneDropsExpiredEntries(t *testing.T) {
	roster := NewRosterService(&rosterProgressRepo{})
	now := time.Now()
	roster.Put(&dto.ProgressResponseDTO{UserID: 1, CourseID: 3, ExpiresAt: now.Add(time.Hour)})
	roster.Put(&dto.ProgressResponseDTO{UserID: 2, CourseID: 4, ExpiresAt: now.Add(-time.Minute)})

	roster.Prune(now)

	snapshot := roster.Snapshot()
	assert.NotNil(t, snapshot[1])
	assert.Nil(t, snapshot[2])
}

func TestRoster_SnapshotIsACopy(t *testing.T) {
	roster := NewRosterService(&rosterProgressRepo{})
	roster.Put(&dto.ProgressResponseDTO{UserID: 1, CourseID: 3})

	snapshot := roster.Snapshot()
	delete(snapshot, 1)

	assert.NotNil(t, roster.Snapshot()[1])
}
