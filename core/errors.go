package core

import "strings"

// FieldError is a request field rejected by a rule the validator tags cannot express.
type FieldError struct {
	Field string
	Error string
}

// ValidationError lists the rejected fields of a request.
type ValidationError struct {
	Fields []FieldError
}

func NewFieldError(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: msg}}}
}

func (err *ValidationError) Error() string {
	if len(err.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(err.Fields))
	for i, fld := range err.Fields {
		msgs[i] = fld.Field + ": " + fld.Error
	}
	return strings.Join(msgs, "; ")
}
