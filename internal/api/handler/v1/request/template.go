package request

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation"
)

type SaveTemplateRequest struct {
	Name     string          `json:"name"`
	Sections json.RawMessage `json:"sections"`
	IsActive bool            `json:"is_active"`
}

func (req *SaveTemplateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Sections, validation.Required),
	)
}

type UpdateTemplateRequest struct {
	Name     string          `json:"name"`
	Sections json.RawMessage `json:"sections"`
}

func (req *UpdateTemplateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(1, 100)),
	)
}
