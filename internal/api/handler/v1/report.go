package v1

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"harvest/internal/api/handler/v1/request"
	"harvest/internal/api/handler/v1/response"
	"harvest/internal/api/middleware"
	"harvest/internal/domain"
	"harvest/internal/pkg/export"
	"harvest/internal/service"
)

type ReportService interface {
	List(ctx context.Context, viewer domain.User, filter service.ReportFilter) ([]domain.Report, error)
	ListForExport(ctx context.Context, viewer domain.User, filter service.ReportFilter) ([]domain.Report, error)
	Create(ctx context.Context, viewer domain.User, report domain.Report, attachments []domain.Attachment) (domain.Report, error)
	Get(ctx context.Context, viewer domain.User, id uint) (domain.Report, error)
	Update(ctx context.Context, viewer domain.User, id uint, updated domain.Report) (domain.Report, error)
	Delete(ctx context.Context, viewer domain.User, id uint) error
}

type AnalyticsService interface {
	Build(ctx context.Context, viewer domain.User, rangeName string) (domain.AnalyticsSummary, error)
}

type ReportHandler struct {
	svc       ReportService
	analytics AnalyticsService
	uploadDir string
}

func NewReportHandler(svc ReportService, analytics AnalyticsService, uploadDir string) *ReportHandler {
	return &ReportHandler{
		svc:       svc,
		analytics: analytics,
		uploadDir: uploadDir,
	}
}

// HandleListReports godoc
// @Summary      List reports visible to the caller
// @Tags         reports
// @Produce      json
// @Param        startDate    query     string  false  "YYYY-MM-DD"
// @Param        endDate      query     string  false  "YYYY-MM-DD"
// @Param        userId       query     int     false  "filter by user"
// @Param        country      query     string  false  "filter by country"
// @Param        searchQuery  query     string  false  "substring match on name or contact"
// @Success      200      {object}   []domain.Report
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports [get]
func (h *ReportHandler) HandleListReports(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	filter, err := request.ParseReportFilter(ctx.Query)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	reports, err := h.svc.List(ctx.Request.Context(), principal, filter)
	if err != nil {
		if errors.Is(err, service.ErrScopeViolation) {
			response.RenderErr(ctx, response.ErrForbidden(err))

			return
		}

		err = fmt.Errorf("v1.HandleListReports -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, reports)
}

// HandleCreateReport godoc
// @Summary      Submit an activity report
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Success      201      {object}   domain.Report
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports [post]
func (h *ReportHandler) HandleCreateReport(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	var req request.SaveReportRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	attachments, err := h.saveUploads(ctx)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateReport -> h.saveUploads -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	report, err := h.svc.Create(ctx.Request.Context(), principal, req.ToDomain(), attachments)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateReport -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, report)
}

// HandleGetReport godoc
// @Summary      Get a report by ID
// @Tags         reports
// @Produce      json
// @Param        reportID   path       int  true  "report ID"
// @Success      200      {object}   domain.Report
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports/{reportID} [get]
func (h *ReportHandler) HandleGetReport(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	id, err := parseIDParam(ctx, "reportID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	report, err := h.svc.Get(ctx.Request.Context(), principal, id)
	if err != nil {
		h.renderReportErr(ctx, "HandleGetReport", err)

		return
	}

	ctx.JSON(http.StatusOK, report)
}

// HandleUpdateReport godoc
// @Summary      Update a report
// @Tags         reports
// @Accept       multipart/form-data
// @Produce      json
// @Param        reportID   path       int  true  "report ID"
// @Success      200      {object}   domain.Report
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports/{reportID} [put]
func (h *ReportHandler) HandleUpdateReport(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	id, err := parseIDParam(ctx, "reportID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateReportRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	report, err := h.svc.Update(ctx.Request.Context(), principal, id, req.ToDomain())
	if err != nil {
		h.renderReportErr(ctx, "HandleUpdateReport", err)

		return
	}

	ctx.JSON(http.StatusOK, report)
}

// HandleDeleteReport godoc
// @Summary      Delete a report
// @Tags         reports
// @Produce      json
// @Param        reportID   path       int  true  "report ID"
// @Success      204      "no content"
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports/{reportID} [delete]
func (h *ReportHandler) HandleDeleteReport(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	id, err := parseIDParam(ctx, "reportID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), principal, id); err != nil {
		h.renderReportErr(ctx, "HandleDeleteReport", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAnalytics godoc
// @Summary      Aggregate performance analytics over a rolling window
// @Tags         reports
// @Produce      json
// @Param        range   query     string  false  "week, month or year"
// @Success      200      {object}   domain.AnalyticsSummary
// @Failure      500      {object}   response.Err
// @Router       /reports/analytics [get]
func (h *ReportHandler) HandleAnalytics(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	summary, err := h.analytics.Build(ctx.Request.Context(), principal, ctx.Query("range"))
	if err != nil {
		err = fmt.Errorf("v1.HandleAnalytics -> h.analytics.Build -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// HandleExportPDF godoc
// @Summary      Export visible reports as PDF
// @Tags         reports
// @Produce      application/pdf
// @Success      200      {file}     binary
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports/export/pdf [get]
func (h *ReportHandler) HandleExportPDF(ctx *gin.Context) {
	h.handleExport(ctx, "pdf", "application/pdf", export.WritePDF)
}

// HandleExportExcel godoc
// @Summary      Export visible reports as a spreadsheet
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200      {file}     binary
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /reports/export/excel [get]
func (h *ReportHandler) HandleExportExcel(ctx *gin.Context) {
	h.handleExport(ctx, "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteExcel)
}

// handleExport renders into a buffer first so errors can still produce
// a JSON body; nothing is streamed until the render succeeded.
func (h *ReportHandler) handleExport(ctx *gin.Context, ext, contentType string, render func(io.Writer, []domain.Report) error) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	filter, err := request.ParseReportFilter(ctx.Query)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	reports, err := h.svc.ListForExport(ctx.Request.Context(), principal, filter)
	if err != nil {
		if errors.Is(err, service.ErrScopeViolation) {
			response.RenderErr(ctx, response.ErrForbidden(err))

			return
		}

		err = fmt.Errorf("v1.handleExport -> h.svc.ListForExport -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	var buf bytes.Buffer
	if err = render(&buf, reports); err != nil {
		err = fmt.Errorf("v1.handleExport -> render -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	filename := fmt.Sprintf("reports-%s.%s", time.Now().Format("20060102"), ext)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ReportHandler) renderReportErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrReportNotFound))
	case errors.Is(err, service.ErrPermissionDenied):
		response.RenderErr(ctx, response.ErrForbidden(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func (h *ReportHandler) saveUploads(ctx *gin.Context) ([]domain.Attachment, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		// No multipart body at all; nothing to save.
		return nil, nil
	}

	files := form.File["files"]
	attachments := make([]domain.Attachment, 0, len(files))
	for _, file := range files {
		filename := uuid.NewString() + filepath.Ext(file.Filename)
		if err := ctx.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
			return nil, err
		}
		attachments = append(attachments, domain.Attachment{
			FileURL:  "/uploads/" + filename,
			FileType: fileType(file),
		})
	}

	return attachments, nil
}

func fileType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}

	return filepath.Ext(file.Filename)
}
