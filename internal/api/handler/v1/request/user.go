package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"harvest/internal/domain"
	"harvest/internal/service"
)

type CreateUserRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Country  string `json:"country"`
	Contact  string `json:"contact"`
	Address  string `json:"address"`
	Church   string `json:"church"`
}

func (req *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Fullname, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Role, validation.Required,
			validation.In(domain.RoleAdmin.String(), domain.RoleLeader.String(), domain.RoleMember.String())),
	)
	if err != nil {
		return err
	}

	if !validPassword(req.Password) {
		return errInvalidPassword
	}

	return nil
}

type UpdateUserRequest struct {
	Fullname *string `json:"fullname"`
	Contact  *string `json:"contact"`
	Address  *string `json:"address"`
	Church   *string `json:"church"`
	Country  *string `json:"country"`
	Role     *string `json:"role"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Fullname, validation.NilOrNotEmpty, validation.Length(2, 100)),
		validation.Field(&req.Country, validation.NilOrNotEmpty),
		validation.Field(&req.Role, validation.NilOrNotEmpty,
			validation.In(domain.RoleAdmin.String(), domain.RoleLeader.String(), domain.RoleMember.String())),
	)
}

func (req *UpdateUserRequest) ToUpdate() service.UserUpdate {
	update := service.UserUpdate{
		Fullname: req.Fullname,
		Contact:  req.Contact,
		Address:  req.Address,
		Church:   req.Church,
		Country:  req.Country,
	}

	if req.Role != nil {
		// Validate already constrained the value.
		role, _ := domain.ParseRole(*req.Role)
		update.Role = &role
	}

	return update
}
