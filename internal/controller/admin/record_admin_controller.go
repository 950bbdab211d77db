package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
)

type RecordAdminController struct {
	maintenance service.RecordMaintenanceService
}

func NewRecordAdminController(maintenance service.RecordMaintenanceService) *RecordAdminController {
	return &RecordAdminController{maintenance: maintenance}
}

// DuplicateReport godoc
// @Summary (Admin) Report (user, course) pairs with duplicate completion records
// @Tags Admin - Maintenance
// @Produce json
// @Success 200 {object} dto.DuplicateReportDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/learning-records/duplicates [get]
func (c *RecordAdminController) DuplicateReport(ctx *gin.Context) {
	report, err := c.maintenance.DuplicateReport()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute duplicate report"})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// KeepLatestOnly godoc
// @Summary (Admin) Collapse duplicate records, keeping the latest per (user, course)
// @Description Transactional: either every stale record in the batch is deleted or none are.
// @Tags Admin - Maintenance
// @Produce json
// @Success 200 {object} dto.CollapseResultDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/learning-records/keep-latest [post]
func (c *RecordAdminController) KeepLatestOnly(ctx *gin.Context) {
	result, err := c.maintenance.KeepLatestOnly()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Keep-latest collapse failed"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ResetAll godoc
// @Summary (Admin) Delete all completion records
// @Description Destructive full wipe of the learning history.
// @Tags Admin - Maintenance
// @Produce json
// @Success 200 {object} dto.CollapseResultDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/learning-records/reset [post]
func (c *RecordAdminController) ResetAll(ctx *gin.Context) {
	result, err := c.maintenance.ResetAll()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Learning record reset failed"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}
