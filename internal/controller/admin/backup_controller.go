package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
)

type BackupController struct {
	backup service.BackupService
}

func NewBackupController(backup service.BackupService) *BackupController {
	return &BackupController{backup: backup}
}

// Export godoc
// @Summary (Admin) Download the full dataset as a JSON backup
// @Tags Admin - Backup
// @Produce json
// @Success 200 {object} dto.BackupDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/export [get]
func (c *BackupController) Export(ctx *gin.Context) {
	backup, err := c.backup.Export()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to export data"})
		return
	}
	filename := fmt.Sprintf("traintrack_backup_%s.json", time.Now().UTC().Format("2006-01-02"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.JSON(http.StatusOK, backup)
}

// Import godoc
// @Summary (Admin) Replace the full dataset from a JSON backup
// @Description Destructive: truncates every table (progress included) and reloads users, courses, and learning records.
// @Tags Admin - Backup
// @Accept json
// @Produce json
// @Param body body dto.BackupDTO true "Backup document"
// @Success 200 {object} dto.ImportResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/import [post]
func (c *BackupController) Import(ctx *gin.Context) {
	var req dto.BackupDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload: " + err.Error()})
		return
	}

	result, err := c.backup.Import(req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to import data"})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ResetData godoc
// @Summary (Admin) Reset all data to the initial seed state
// @Description Destructive: wipes everything and leaves a single administrator account.
// @Tags Admin - Backup
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/data [delete]
func (c *BackupController) ResetData(ctx *gin.Context) {
	if _, err := c.backup.ResetToSeed(); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to reset data"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Data reset to initial state"})
}
