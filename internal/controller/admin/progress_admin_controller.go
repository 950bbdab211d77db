package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
)

type ProgressAdminController struct {
	tracker service.ProgressTrackerService
}

func NewProgressAdminController(tracker service.ProgressTrackerService) *ProgressAdminController {
	return &ProgressAdminController{tracker: tracker}
}

// CleanupExpired godoc
// @Summary (Admin) Delete expired progress slots now
// @Description Runs the expired-slot sweep immediately instead of waiting for the periodic one.
// @Tags Admin - Maintenance
// @Produce json
// @Success 200 {object} dto.CleanupResultDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/progress/cleanup [post]
func (c *ProgressAdminController) CleanupExpired(ctx *gin.Context) {
	deleted, err := c.tracker.CleanupExpired()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Progress cleanup failed"})
		return
	}
	ctx.JSON(http.StatusOK, dto.CleanupResultDTO{Deleted: deleted})
}

// ClearUserProgress godoc
// @Summary (Admin) Clear every progress slot a user holds
// @Tags Admin - Maintenance
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/progress/{user_id} [delete]
func (c *ProgressAdminController) ClearUserProgress(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "user_id")
	if !ok {
		return
	}
	if err := c.tracker.ClearAll(userID); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to clear progress"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Progress cleared"})
}
