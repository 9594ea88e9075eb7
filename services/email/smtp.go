package emailsvc

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/iiw24/turma/core"
)

// sender is implemented by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPService sends emails through an SMTP relay (e.g. Gmail with an app password).
type SMTPService struct {
	dialer     sender
	from       string
	subjPrefix string
}

var _ core.EmailService = (*SMTPService)(nil)

func NewSMTPService(conf *core.Config) (*SMTPService, error) {
	ec := conf.Email
	if ec.SMTPUsername == "" || ec.SMTPPassword == "" {
		return nil, errors.New("smtp credentials not configured")
	}
	from := ec.DefaultFromEmail
	if from == "" {
		from = ec.SMTPUsername
	}
	return &SMTPService{
		dialer:     gomail.NewDialer(ec.SMTPHost, ec.SMTPPort, ec.SMTPUsername, ec.SMTPPassword),
		from:       from,
		subjPrefix: subjectPrefix(conf),
	}, nil
}

func (svc *SMTPService) message(msg *core.EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", svc.from)
	m.SetHeader("Subject", svc.subjPrefix+msg.Subject)

	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, m.FormatAddress(addr.Address, addr.Name))
	}
	m.SetHeader("To", to...)
	if len(msg.Cc) > 0 {
		cc := make([]string, 0, len(msg.Cc))
		for _, addr := range msg.Cc {
			cc = append(cc, m.FormatAddress(addr.Address, addr.Name))
		}
		m.SetHeader("Cc", cc...)
	}
	if msg.ReplyTo != nil {
		m.SetHeader("Reply-To", m.FormatAddress(msg.ReplyTo.Address, msg.ReplyTo.Name))
	}
	m.SetBody("text/plain", msg.TextContent)
	return m
}

// SendMessage sends msg. gomail cannot be cancelled: ctx is only checked before dialing.
func (svc *SMTPService) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	if err := msg.Prepare(); err != nil {
		return errors.Wrap(err, "preparing email")
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "sending email")
	}
	if err := svc.dialer.DialAndSend(svc.message(msg)); err != nil {
		return errors.Wrap(err, "sending email")
	}
	return nil
}
