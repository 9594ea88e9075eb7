package agenda

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/iiw24/turma/core"
)

func (in *ItemInput) Validate(validate *validator.Validate) error {
	in.Title = core.CleanString(in.Title)
	in.Description = core.CleanString(in.Description)
	in.Date = core.CleanString(in.Date)
	in.Tag = Tag(core.CleanString(string(in.Tag), true /* lower */))
	return validate.Struct(in)
}

var classIDPattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// CleanClassID trims and lowercases a class id taken from a request.
func CleanClassID(raw string) (string, error) {
	classID := core.CleanString(raw, true /* lower */)
	if !classIDPattern.MatchString(classID) {
		return "", core.NewFieldError("classId", "classId must only contain letters, digits, '.', '-' or '_'")
	}
	return classID, nil
}
