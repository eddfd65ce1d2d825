package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"harvest/internal/api/handler/v1/response"
	"harvest/internal/service"
)

type BackupService interface {
	Create(ctx context.Context) (service.BackupInfo, error)
	History() ([]service.BackupInfo, error)
	Resolve(filename string) (string, error)
}

type BackupHandler struct {
	svc BackupService
}

func NewBackupHandler(svc BackupService) *BackupHandler {
	return &BackupHandler{
		svc: svc,
	}
}

// HandleCreateBackup godoc
// @Summary      Generate a SQL backup of the database
// @Tags         backup
// @Produce      json
// @Success      201      {object}   service.BackupInfo
// @Failure      500      {object}   response.Err
// @Router       /backup/create [post]
func (h *BackupHandler) HandleCreateBackup(ctx *gin.Context) {
	info, err := h.svc.Create(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateBackup -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, info)
}

// HandleBackupHistory godoc
// @Summary      List generated backups, newest first
// @Tags         backup
// @Produce      json
// @Success      200      {object}   []service.BackupInfo
// @Failure      500      {object}   response.Err
// @Router       /backup/history [get]
func (h *BackupHandler) HandleBackupHistory(ctx *gin.Context) {
	backups, err := h.svc.History()
	if err != nil {
		err = fmt.Errorf("v1.HandleBackupHistory -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, backups)
}

// HandleDownloadBackup godoc
// @Summary      Download a backup file
// @Tags         backup
// @Produce      application/sql
// @Param        filename   path       string  true  "backup filename"
// @Success      200      {file}     binary
// @Failure      404      {object}   response.Err
// @Router       /backup/download/{filename} [get]
func (h *BackupHandler) HandleDownloadBackup(ctx *gin.Context) {
	filename := ctx.Param("filename")

	path, err := h.svc.Resolve(filename)
	if err != nil {
		if errors.Is(err, service.ErrBackupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleDownloadBackup -> h.svc.Resolve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.FileAttachment(path, filename)
}
