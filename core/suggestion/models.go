package suggestion

import (
	"github.com/go-playground/validator/v10"

	"github.com/iiw24/turma/core"
)

// Request suggests teacher emails missing from the directory.
type Request struct {
	NewEmails   []string `json:"newEmails" validate:"required,min=1,dive,email"`
	Description string   `json:"description"`
}

func (r *Request) Validate(validate *validator.Validate) error {
	r.NewEmails = core.CleanStrings(r.NewEmails, true /* lower */)
	r.Description = core.CleanString(r.Description)
	return validate.Struct(r)
}
