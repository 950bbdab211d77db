package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
	"github.com/rs/zerolog/log"
)

type RecordController struct {
	recordService service.LearningRecordService
	tracker       service.ProgressTrackerService
}

func NewRecordController(recordService service.LearningRecordService, tracker service.ProgressTrackerService) *RecordController {
	return &RecordController{recordService: recordService, tracker: tracker}
}

// GetAllRecords godoc
// @Summary List all learning records with user/course details
// @Tags Learning Records
// @Produce json
// @Success 200 {array} dto.LearningRecordResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /learning-records [get]
func (c *RecordController) GetAllRecords(ctx *gin.Context) {
	records, err := c.recordService.GetAll()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch learning records"})
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// GetUserRecords godoc
// @Summary List one user's learning records
// @Tags Learning Records
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.LearningRecordResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /learning-records/user/{user_id} [get]
func (c *RecordController) GetUserRecords(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	records, err := c.recordService.GetByUser(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch learning records"})
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// CreateRecord godoc
// @Summary Record a completed attempt
// @Description Appends an immutable completion record and clears the in-progress slot for the pair.
// @Tags Learning Records
// @Accept json
// @Produce json
// @Param body body dto.LearningRecordCreateDTO true "Completion record"
// @Success 201 {object} dto.LearningRecordResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown user or course"
// @Failure 500 {object} dto.ErrorResponse
// @Router /learning-records [post]
func (c *RecordController) CreateRecord(ctx *gin.Context) {
	var req dto.LearningRecordCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	record, err := c.recordService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrCourseNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create learning record"})
		return
	}

	// Completion retires the resumable slot; a failure here only means the
	// slot lingers until expiry.
	if err := c.tracker.Clear(req.UserID, req.CourseID); err != nil {
		log.Warn().Err(err).Uint("userID", req.UserID).Uint("courseID", req.CourseID).Msg("Failed to clear progress after completion")
	}

	ctx.JSON(http.StatusCreated, record)
}
