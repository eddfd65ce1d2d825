package request

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const minPasswordLength = 8

var errInvalidPassword = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")

var (
	passwordLetterExp = regexp.MustCompile(`[A-Za-z]`)
	passwordDigitExp  = regexp.MustCompile(`\d`)
)

func validPassword(password string) bool {
	return len(password) >= minPasswordLength &&
		passwordLetterExp.MatchString(password) &&
		passwordDigitExp.MatchString(password)
}

type RegisterRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
	Contact  string `json:"contact"`
	Address  string `json:"address"`
	Church   string `json:"church"`
}

func (req *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Fullname, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Country, validation.Required),
	)
	if err != nil {
		return err
	}

	if !validPassword(req.Password) {
		return errInvalidPassword
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (req *ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (req *ResetPasswordRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	if !validPassword(req.NewPassword) {
		return errInvalidPassword
	}

	return nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (req *ChangePasswordRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.OldPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	if !validPassword(req.NewPassword) {
		return errInvalidPassword
	}

	return nil
}
