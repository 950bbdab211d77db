package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func recordDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "course_id", "score", "passed", "completed_at",
		"answers", "time_spent", "user_name", "user_dept", "course_title", "total_questions",
	})
}

func TestLearningRecordRepository_FindAllWithDetails(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	now := time.Now()
	rows := recordDetailRows().
		AddRow(2, 1, 3, 9, true, now, []byte(`["a","b"]`), 420, "Yui Sato", "HR", "Security 101", 12).
		AddRow(1, 4, 3, 2, false, now.Add(-time.Hour), nil, 300, "Taku Maeda", "Investment", "Security 101", 12)

	mock.ExpectQuery(`SELECT learning_records\..*user_name.*total_questions.*FROM "learning_records" LEFT JOIN users u ON learning_records\.user_id = u\.id LEFT JOIN courses c ON learning_records\.course_id = c\.id ORDER BY learning_records\.completed_at DESC`).
		WillReturnRows(rows)

	records, err := repo.FindAllWithDetails()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Yui Sato", records[0].UserName)
	assert.Equal(t, "Security 101", records[0].CourseTitle)
	assert.Equal(t, 12, records[0].TotalQuestions)
	assert.False(t, records[1].Passed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearningRecordRepository_FindByUserWithDetails(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	now := time.Now()
	mock.ExpectQuery(`FROM "learning_records" LEFT JOIN users u .* WHERE learning_records\.user_id = \$1 ORDER BY learning_records\.completed_at DESC`).
		WithArgs(4).
		WillReturnRows(recordDetailRows().
			AddRow(1, 4, 3, 2, false, now, nil, 300, "Taku Maeda", "Investment", "Security 101", 12))

	records, err := repo.FindByUserWithDetails(4)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint(4), records[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearningRecordRepository_FindDuplicateGroups(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	rows := sqlmock.NewRows([]string{"user_id", "course_id", "count"}).
		AddRow(1, 3, 4).
		AddRow(2, 3, 2)

	mock.ExpectQuery(`SELECT user_id, course_id, COUNT\(\*\) AS count FROM "learning_records" GROUP BY user_id, course_id HAVING COUNT\(\*\) > 1`).
		WillReturnRows(rows)

	groups, err := repo.FindDuplicateGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, uint(1), groups[0].UserID)
	assert.Equal(t, int64(4), groups[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearningRecordRepository_FindDuplicateGroupsNone(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	mock.ExpectQuery(`GROUP BY user_id, course_id HAVING COUNT\(\*\) > 1`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "course_id", "count"}))

	groups, err := repo.FindDuplicateGroups()
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestLearningRecordRepository_Count(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "learning_records"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(17), count)
}

func TestLearningRecordRepository_Create(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "learning_records" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	record := model.LearningRecord{UserID: 1, CourseID: 2, Score: 8, Passed: true}
	require.NoError(t, repo.Create(&record))
	assert.Equal(t, uint(5), record.ID)
}

func TestLearningRecordRepository_CreateError(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewLearningRecordRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "learning_records"`).
		WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	record := model.LearningRecord{UserID: 1, CourseID: 2}
	assert.Error(t, repo.Create(&record))
}
