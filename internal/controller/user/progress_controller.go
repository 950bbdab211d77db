package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
	"github.com/rs/zerolog/log"
)

type ProgressController struct {
	tracker service.ProgressTrackerService
}

func NewProgressController(tracker service.ProgressTrackerService) *ProgressController {
	return &ProgressController{tracker: tracker}
}

// GetProgress godoc
// @Summary Get saved progress for a user in a course
// @Description Returns the resumable slot for (user, course). An expired slot is deleted and reported as not found.
// @Tags Progress
// @Produce json
// @Param user_id path int true "User ID"
// @Param course_id query int true "Course ID"
// @Success 200 {object} dto.ProgressResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid IDs"
// @Failure 404 {object} dto.ErrorResponse "No progress to resume"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /progress/{user_id} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	courseIDStr := ctx.Query("course_id")
	if courseIDStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "course_id query parameter is required"})
		return
	}
	courseID, err := strconv.ParseUint(courseIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid course_id format"})
		return
	}

	slot, err := c.tracker.Load(userID, uint(courseID))
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No progress found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load progress"})
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

// SaveProgress godoc
// @Summary Save (upsert) progress for a user
// @Description Overwrites the slot for (user, body.courseId); last write wins. A failed save is reported as a failure so the client can warn the user.
// @Tags Progress
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param body body dto.ProgressSaveDTO true "Progress state"
// @Success 200 {object} dto.ProgressResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 500 {object} dto.ErrorResponse "Save failed, progress may not be persisted"
// @Router /progress/{user_id} [put]
func (c *ProgressController) SaveProgress(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	var req dto.ProgressSaveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	slot, err := c.tracker.Save(userID, req)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("SaveProgress failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save progress; your position may not be saved"})
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

// Resume godoc
// @Summary Resume the most recently active course for a user
// @Description Returns the resume payload for the latest slot. If the slot's course was deleted, the slot is cleared and 409 is returned.
// @Tags Progress
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.ProgressResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Nothing to resume"
// @Failure 409 {object} dto.ErrorResponse "Progress references a deleted course"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /progress/{user_id}/resume [get]
func (c *ProgressController) Resume(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	slot, err := c.tracker.Resume(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgressNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Nothing to resume"})
		case errors.Is(err, service.ErrCourseGone):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Cannot resume: the course no longer exists, contact an administrator"})
		default:
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to resume"})
		}
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

// ClearProgress godoc
// @Summary Clear saved progress
// @Description Deletes the slot for (user, course_id), or every slot of the user when course_id is omitted. Idempotent.
// @Tags Progress
// @Produce json
// @Param user_id path int true "User ID"
// @Param course_id query int false "Course ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid IDs"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /progress/{user_id} [delete]
func (c *ProgressController) ClearProgress(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}

	var err error
	if courseIDStr := ctx.Query("course_id"); courseIDStr != "" {
		courseID, parseErr := strconv.ParseUint(courseIDStr, 10, 32)
		if parseErr != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid course_id format"})
			return
		}
		err = c.tracker.Clear(userID, uint(courseID))
	} else {
		err = c.tracker.ClearAll(userID)
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to clear progress"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Progress cleared"})
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
