package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"harvest/internal/api/handler/v1/request"
	"harvest/internal/api/handler/v1/response"
	"harvest/internal/domain"
	"harvest/internal/service"
)

type ReportTemplateService interface {
	ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error)
	GetTemplate(ctx context.Context, id uint) (domain.ReportTemplate, error)
	GetActiveTemplate(ctx context.Context) (domain.ReportTemplate, error)
	CreateTemplate(ctx context.Context, template domain.ReportTemplate) (domain.ReportTemplate, error)
	UpdateTemplate(ctx context.Context, id uint, name string, sections []byte) (domain.ReportTemplate, error)
	DeleteTemplate(ctx context.Context, id uint) error
	ActivateTemplate(ctx context.Context, id uint) (domain.ReportTemplate, error)
}

type TemplateHandler struct {
	svc ReportTemplateService
}

func NewTemplateHandler(svc ReportTemplateService) *TemplateHandler {
	return &TemplateHandler{
		svc: svc,
	}
}

// HandleListTemplates godoc
// @Summary      List report templates
// @Tags         templates
// @Produce      json
// @Success      200      {object}   []domain.ReportTemplate
// @Failure      500      {object}   response.Err
// @Router       /report-templates [get]
func (h *TemplateHandler) HandleListTemplates(ctx *gin.Context) {
	templates, err := h.svc.ListTemplates(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTemplates -> h.svc.ListTemplates -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, templates)
}

// HandleGetActiveTemplate godoc
// @Summary      Get the active report template
// @Tags         templates
// @Produce      json
// @Success      200      {object}   domain.ReportTemplate
// @Failure      500      {object}   response.Err
// @Router       /report-templates/active [get]
func (h *TemplateHandler) HandleGetActiveTemplate(ctx *gin.Context) {
	template, err := h.svc.GetActiveTemplate(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetActiveTemplate -> h.svc.GetActiveTemplate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, template)
}

// HandleGetTemplate godoc
// @Summary      Get a report template by ID
// @Tags         templates
// @Produce      json
// @Param        templateID   path       int  true  "template ID"
// @Success      200      {object}   domain.ReportTemplate
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /report-templates/{templateID} [get]
func (h *TemplateHandler) HandleGetTemplate(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "templateID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	template, err := h.svc.GetTemplate(ctx.Request.Context(), id)
	if err != nil {
		h.renderTemplateErr(ctx, "HandleGetTemplate", err)

		return
	}

	ctx.JSON(http.StatusOK, template)
}

// HandleCreateTemplate godoc
// @Summary      Create a report template
// @Tags         templates
// @Produce      json
// @Param        request   body      request.SaveTemplateRequest true "request body"
// @Success      201      {object}   domain.ReportTemplate
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /report-templates [post]
func (h *TemplateHandler) HandleCreateTemplate(ctx *gin.Context) {
	var req request.SaveTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	template, err := h.svc.CreateTemplate(ctx.Request.Context(), domain.ReportTemplate{
		Name:     req.Name,
		Sections: req.Sections,
		IsActive: req.IsActive,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTemplate -> h.svc.CreateTemplate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, template)
}

// HandleUpdateTemplate godoc
// @Summary      Update a report template
// @Tags         templates
// @Produce      json
// @Param        templateID   path       int  true  "template ID"
// @Param        request   body      request.UpdateTemplateRequest true "request body"
// @Success      200      {object}   domain.ReportTemplate
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /report-templates/{templateID} [put]
func (h *TemplateHandler) HandleUpdateTemplate(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "templateID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	template, err := h.svc.UpdateTemplate(ctx.Request.Context(), id, req.Name, req.Sections)
	if err != nil {
		h.renderTemplateErr(ctx, "HandleUpdateTemplate", err)

		return
	}

	ctx.JSON(http.StatusOK, template)
}

// HandleDeleteTemplate godoc
// @Summary      Delete a report template
// @Tags         templates
// @Produce      json
// @Param        templateID   path       int  true  "template ID"
// @Success      204      "no content"
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /report-templates/{templateID} [delete]
func (h *TemplateHandler) HandleDeleteTemplate(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "templateID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.DeleteTemplate(ctx.Request.Context(), id); err != nil {
		h.renderTemplateErr(ctx, "HandleDeleteTemplate", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleActivateTemplate godoc
// @Summary      Make a template the single active one
// @Tags         templates
// @Produce      json
// @Param        templateID   path       int  true  "template ID"
// @Success      200      {object}   domain.ReportTemplate
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /report-templates/{templateID}/activate [post]
func (h *TemplateHandler) HandleActivateTemplate(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "templateID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	template, err := h.svc.ActivateTemplate(ctx.Request.Context(), id)
	if err != nil {
		h.renderTemplateErr(ctx, "HandleActivateTemplate", err)

		return
	}

	ctx.JSON(http.StatusOK, template)
}

func (h *TemplateHandler) renderTemplateErr(ctx *gin.Context, op string, err error) {
	if errors.Is(err, service.ErrTemplateNotFound) {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrTemplateNotFound))

		return
	}

	err = fmt.Errorf("v1.%v -> %w", op, err)
	response.RenderErr(ctx, response.ErrInternalServerError(err))
}
