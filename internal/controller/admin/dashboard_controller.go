package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/mkaneko/traintrack/internal/dto"
	"github.com/mkaneko/traintrack/internal/service"
	"github.com/rs/zerolog/log"
)

type DashboardController struct {
	userService service.UserService
	roster      service.RosterService
}

func NewDashboardController(userService service.UserService, roster service.RosterService) *DashboardController {
	return &DashboardController{userService: userService, roster: roster}
}

// GetDashboard godoc
// @Summary (Admin) Roster with each user's latest progress
// @Description Rebuilds the roster projection (concurrent per-user loads, failures degraded to null) and returns it. Subsequent saves patch the projection via write-through.
// @Tags Admin - Dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	users, err := c.userService.GetAllModels()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to fetch users"})
		return
	}

	projection := c.roster.LoadAll(users)

	resp := dto.DashboardResponseDTO{Entries: make([]dto.DashboardEntryDTO, 0, len(users))}
	for _, user := range users {
		var userDTO dto.UserResponseDTO
		if err := copier.Copy(&userDTO, &user); err != nil {
			log.Error().Err(err).Uint("userID", user.ID).Msg("Failed to map user for dashboard")
			continue
		}
		resp.Entries = append(resp.Entries, dto.DashboardEntryDTO{
			User:     userDTO,
			Progress: projection[user.ID],
		})
	}
	ctx.JSON(http.StatusOK, resp)
}
