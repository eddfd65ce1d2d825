package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"harvest/internal/api/handler/v1/request"
	"harvest/internal/api/handler/v1/response"
	"harvest/internal/api/middleware"
	"harvest/internal/domain"
	"harvest/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context, viewer domain.User) ([]domain.User, error)
	CreateUser(ctx context.Context, viewer domain.User, user domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, viewer domain.User, id uint, update service.UserUpdate) (domain.User, error)
	DeleteUser(ctx context.Context, viewer domain.User, id uint) error
	UpdateProfileImage(ctx context.Context, userID uint, fileURL string) (domain.User, error)
}

type UserHandler struct {
	svc       UserService
	uploadDir string
}

func NewUserHandler(svc UserService, uploadDir string) *UserHandler {
	return &UserHandler{
		svc:       svc,
		uploadDir: uploadDir,
	}
}

// HandleListUsers godoc
// @Summary      List users visible to the caller
// @Tags         users
// @Produce      json
// @Success      200      {object}   []domain.User
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [get]
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	users, err := h.svc.ListUsers(ctx.Request.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			response.RenderErr(ctx, response.ErrForbidden(err))

			return
		}

		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "user ID"
// @Success      200      {object}   domain.User
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCreateUser godoc
// @Summary      Create a user with an explicit role (admin only)
// @Tags         users
// @Produce      json
// @Param        request   body      request.CreateUserRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [post]
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.CreateUser(ctx.Request.Context(), principal, domain.User{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Country:  req.Country,
		Contact:  req.Contact,
		Address:  req.Address,
		Church:   req.Church,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrForbidden(err))
		case errors.Is(err, service.ErrUserEmailExists), errors.Is(err, service.ErrCountryRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateUser -> h.svc.CreateUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleUpdateUser godoc
// @Summary      Update a user (self or admin)
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "user ID"
// @Param        request   body      request.UpdateUserRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [put]
func (h *UserHandler) HandleUpdateUser(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.UpdateUser(ctx.Request.Context(), principal, id, req.ToUpdate())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrForbidden(err))
		case errors.Is(err, service.ErrLeaderLimit), errors.Is(err, service.ErrCountryRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		default:
			err = fmt.Errorf("v1.HandleUpdateUser -> h.svc.UpdateUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "user ID"
// @Success      204      "no content"
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [delete]
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	id, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.DeleteUser(ctx.Request.Context(), principal, id); err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.RenderErr(ctx, response.ErrForbidden(err))
		case errors.Is(err, service.ErrSelfDelete):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrUserNotFound))
		default:
			err = fmt.Errorf("v1.HandleDeleteUser -> h.svc.DeleteUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUploadProfileImage godoc
// @Summary      Upload the caller's profile image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        image   formData   file  true  "image file"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/profile-image [post]
func (h *UserHandler) HandleUploadProfileImage(ctx *gin.Context) {
	principal, ok := middleware.UserFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized("missing token"))

		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("image file is required")))

		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err = ctx.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		err = fmt.Errorf("v1.HandleUploadProfileImage -> ctx.SaveUploadedFile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	user, err := h.svc.UpdateProfileImage(ctx.Request.Context(), principal.ID, "/uploads/"+filename)
	if err != nil {
		err = fmt.Errorf("v1.HandleUploadProfileImage -> h.svc.UpdateProfileImage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, user)
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%v is not a valid ID", raw)
	}

	return uint(id), nil
}
