package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their JSON names so errors match request bodies.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EmailForm is the request to deliver a business profile by email.
type EmailForm struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"max=5000"`
}

// RenderRequest carries an inline profile and its rounds for one-off rendering.
type RenderRequest struct {
	Profile *CompanyProfile `json:"profile" validate:"required"`
	Rounds  []FundingRound  `json:"rounds,omitempty"`
}

// Validate validates the EmailForm using the validator.
func (f *EmailForm) Validate() error {
	return validate.Struct(f)
}

// Validate validates the RenderRequest and its nested profile.
func (r *RenderRequest) Validate() error {
	return validate.Struct(r)
}
