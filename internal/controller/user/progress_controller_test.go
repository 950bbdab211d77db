package user

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTracker struct {
	slot       *dto.ProgressResponseDTO
	err        error
	savedUser  uint
	savedReq   dto.ProgressSaveDTO
	cleared    [][2]uint
	clearedAll []uint
}

func (s *stubTracker) Save(userID uint, req dto.ProgressSaveDTO) (*dto.ProgressResponseDTO, error) {
	s.savedUser = userID
	s.savedReq = req
	return s.slot, s.err
}
func (s *stubTracker) Load(userID, courseID uint) (*dto.ProgressResponseDTO, error) {
	return s.slot, s.err
}
func (s *stubTracker) Resume(userID uint) (*dto.ProgressResponseDTO, error) {
	return s.slot, s.err
}
func (s *stubTracker) Clear(userID, courseID uint) error {
	s.cleared = append(s.cleared, [2]uint{userID, courseID})
	return s.err
}
func (s *stubTracker) ClearAll(userID uint) error {
	s.clearedAll = append(s.clearedAll, userID)
	return s.err
}
func (s *stubTracker) CleanupExpired() (int64, error) { return 0, s.err }

func setupProgressRouter(tracker service.ProgressTrackerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewProgressController(tracker)
	r.GET("/progress/:user_id", ctrl.GetProgress)
	r.GET("/progress/:user_id/resume", ctrl.Resume)
	r.PUT("/progress/:user_id", ctrl.SaveProgress)
	r.DELETE("/progress/:user_id", ctrl.ClearProgress)
	return r
}

func TestGetProgress(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		tracker    *stubTracker
		wantStatus int
		wantBody   string
	}{
		{
			name:       "found",
			url:        "/progress/1?course_id=7",
			tracker:    &stubTracker{slot: &dto.ProgressResponseDTO{UserID: 1, CourseID: 7, CurrentSlide: 10}},
			wantStatus: http.StatusOK,
			wantBody:   `"courseId":7`,
		},
		{
			name:       "missing course_id query",
			url:        "/progress/1",
			tracker:    &stubTracker{},
			wantStatus: http.StatusBadRequest,
			wantBody:   "course_id query parameter is required",
		},
		{
			name:       "bad user id",
			url:        "/progress/abc?course_id=7",
			tracker:    &stubTracker{},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid user_id format",
		},
		{
			name:       "no progress",
			url:        "/progress/1?course_id=7",
			tracker:    &stubTracker{err: service.ErrProgressNotFound},
			wantStatus: http.StatusNotFound,
			wantBody:   "No progress found",
		},
		{
			name:       "storage failure",
			url:        "/progress/1?course_id=7",
			tracker:    &stubTracker{err: errors.New("io timeout")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to load progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupProgressRouter(tt.tracker)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSaveProgress(t *testing.T) {
	tracker := &stubTracker{slot: &dto.ProgressResponseDTO{UserID: 1, CourseID: 2, CurrentSlide: 5}}
	router := setupProgressRouter(tracker)

	w := httptest.NewRecorder()
	body := `{"courseId":2,"currentSlide":5,"quizStarted":true,"quizAnswers":{"0":"b"}}`
	req := httptest.NewRequest(http.MethodPut, "/progress/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(1), tracker.savedUser)
	assert.Equal(t, uint(2), tracker.savedReq.CourseID)
	assert.Equal(t, 5, tracker.savedReq.CurrentSlide)
	assert.True(t, tracker.savedReq.QuizStarted)
}

func TestSaveProgressRejectsMissingCourseID(t *testing.T) {
	router := setupProgressRouter(&stubTracker{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/progress/1", strings.NewReader(`{"currentSlide":5}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveProgressReportsStoreFailure(t *testing.T) {
	router := setupProgressRouter(&stubTracker{err: errors.New("connection reset")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/progress/1", strings.NewReader(`{"courseId":2}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "your position may not be saved")
}

func TestResumeCourseGoneReturnsConflict(t *testing.T) {
	router := setupProgressRouter(&stubTracker{err: service.ErrCourseGone})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/progress/1/resume", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "contact an administrator")
}

func TestResumeNothingSaved(t *testing.T) {
	router := setupProgressRouter(&stubTracker{err: service.ErrProgressNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/progress/1/resume", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearProgressScopesByCourseQuery(t *testing.T) {
	tracker := &stubTracker{}
	router := setupProgressRouter(tracker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/progress/1?course_id=2", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, tracker.cleared, 1)
	assert.Equal(t, [2]uint{1, 2}, tracker.cleared[0])

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/progress/1", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{1}, tracker.clearedAll)
}
