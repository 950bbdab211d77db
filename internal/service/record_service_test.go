package service

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockRecordRepo struct {
	rows    []repository.LearningRecordWithDetails
	groups  []repository.DuplicateGroup
	count   int64
	err     error
	created *model.LearningRecord
}

func (m *mockRecordRepo) Create(record *model.LearningRecord) error {
	if m.err != nil {
		return m.err
	}
	record.ID = 1
	record.CompletedAt = time.Now()
	m.created = record
	return nil
}

func (m *mockRecordRepo) FindAllWithDetails() ([]repository.LearningRecordWithDetails, error) {
	return m.rows, m.err
}

func (m *mockRecordRepo) FindByUserWithDetails(userID uint) ([]repository.LearningRecordWithDetails, error) {
	var rows []repository.LearningRecordWithDetails
	for _, row := range m.rows {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	return rows, m.err
}

func (m *mockRecordRepo) FindDuplicateGroups() ([]repository.DuplicateGroup, error) {
	return m.groups, m.err
}

func (m *mockRecordRepo) Count() (int64, error) {
	return m.count, m.err
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestLearningRecord_CreateRejectsUnknownUser(t *testing.T) {
	svc := NewLearningRecordService(&mockRecordRepo{}, &mockUserRepo{}, &mockCourseRepo{})

	_, err := svc.Create(dto.LearningRecordCreateDTO{UserID: 42, CourseID: 1})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLearningRecord_CreateRejectsUnknownCourse(t *testing.T) {
	svc := NewLearningRecordService(
		&mockRecordRepo{},
		&mockUserRepo{user: &model.User{ID: 1}},
		&mockCourseRepo{},
	)

	_, err := svc.Create(dto.LearningRecordCreateDTO{UserID: 1, CourseID: 42})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestLearningRecord_CreateAppendsRecord(t *testing.T) {
	recordRepo := &mockRecordRepo{}
	svc := NewLearningRecordService(
		recordRepo,
		&mockUserRepo{user: &model.User{ID: 1}},
		&mockCourseRepo{course: &model.Course{ID: 2, Title: "Security 101"}},
	)

	resp, err := svc.Create(dto.LearningRecordCreateDTO{
		UserID:    1,
		CourseID:  2,
		Score:     8,
		Passed:    true,
		TimeSpent: 540,
	})
	require.NoError(t, err)
	require.NotNil(t, recordRepo.created)
	assert.Equal(t, 8, recordRepo.created.Score)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 8, resp.CorrectCount)
}

func TestLearningRecord_StatusDerivedFromPassed(t *testing.T) {
	recordRepo := &mockRecordRepo{
		rows: []repository.LearningRecordWithDetails{
			{LearningRecord: model.LearningRecord{ID: 1, UserID: 1, Score: 9, Passed: true}, TotalQuestions: 12},
			{LearningRecord: model.LearningRecord{ID: 2, UserID: 1, Score: 3, Passed: false}},
		},
	}
	svc := NewLearningRecordService(recordRepo, &mockUserRepo{}, &mockCourseRepo{})

	records, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "completed", records[0].Status)
	assert.Equal(t, 12, records[0].TotalQuestions)
	assert.Equal(t, "failed", records[1].Status)
	// No quiz on the course: quiz length defaults to ten questions.
	assert.Equal(t, 10, records[1].TotalQuestions)
}

func TestRecordMaintenance_DuplicateReport(t *testing.T) {
	recordRepo := &mockRecordRepo{
		groups: []repository.DuplicateGroup{
			{UserID: 1, CourseID: 2, Count: 3},
			{UserID: 4, CourseID: 2, Count: 2},
		},
	}
	svc := NewRecordMaintenanceService(recordRepo, nil)

	report, err := svc.DuplicateReport()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, int64(3), report.Groups[0].Count)
}

func TestRecordMaintenance_DuplicateReportEmpty(t *testing.T) {
	svc := NewRecordMaintenanceService(&mockRecordRepo{}, nil)

	report, err := svc.DuplicateReport()
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.NotNil(t, report.Groups)
	assert.Empty(t, report.Groups)
}

func TestRecordMaintenance_KeepLatestOnly(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM learning_records WHERE id NOT IN \( SELECT DISTINCT ON \(user_id, course_id\) id FROM learning_records ORDER BY user_id, course_id, completed_at DESC \)`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	svc := NewRecordMaintenanceService(&mockRecordRepo{count: 6}, gdb)

	result, err := svc.KeepLatestOnly()
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Deleted)
	assert.Equal(t, int64(6), result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMaintenance_KeepLatestOnlyRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM learning_records WHERE id NOT IN`).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	svc := NewRecordMaintenanceService(&mockRecordRepo{}, gdb)

	_, err := svc.KeepLatestOnly()
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMaintenance_ResetAll(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM learning_records`).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	svc := NewRecordMaintenanceService(&mockRecordRepo{}, gdb)

	result, err := svc.ResetAll()
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Deleted)
	assert.Equal(t, int64(0), result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}
