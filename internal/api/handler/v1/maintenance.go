package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"harvest/internal/api/handler/v1/response"
)

type MaintenanceService interface {
	Status() (bool, error)
	Toggle() (bool, error)
}

type MaintenanceHandler struct {
	svc MaintenanceService
}

func NewMaintenanceHandler(svc MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		svc: svc,
	}
}

// HandleStatus godoc
// @Summary      Get maintenance mode status
// @Tags         maintenance
// @Produce      json
// @Success      200      {object}   map[string]bool
// @Failure      500      {object}   response.Err
// @Router       /maintenance/status [get]
func (h *MaintenanceHandler) HandleStatus(ctx *gin.Context) {
	enabled, err := h.svc.Status()
	if err != nil {
		err = fmt.Errorf("v1.HandleStatus -> h.svc.Status -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// HandleToggle godoc
// @Summary      Toggle maintenance mode
// @Tags         maintenance
// @Produce      json
// @Success      200      {object}   map[string]bool
// @Failure      500      {object}   response.Err
// @Router       /maintenance/toggle [post]
func (h *MaintenanceHandler) HandleToggle(ctx *gin.Context) {
	enabled, err := h.svc.Toggle()
	if err != nil {
		err = fmt.Errorf("v1.HandleToggle -> h.svc.Toggle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"enabled": enabled})
}
