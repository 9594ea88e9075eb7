package emailsvc

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/iiw24/turma/core"
)

// NewService returns the EmailService selected by conf.Email.Backend: console (default), smtp or sendgrid.
func NewService(conf *core.Config) (core.EmailService, error) {
	switch strings.ToLower(conf.Email.Backend) {
	case "", "console":
		return NewConsoleService(conf, nil), nil
	case "smtp":
		return NewSMTPService(conf)
	case "sendgrid":
		return NewSendgridService(conf)
	default:
		return nil, errors.Errorf("unknown email backend %q", conf.Email.Backend)
	}
}
