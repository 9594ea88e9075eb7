package core

import (
	"bytes"
	"context"
	"net/mail"
	"text/template"

	"github.com/pkg/errors"
)

var ErrNoRecipients = errors.New("email has no recipients")

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		ReplyTo *mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		Template     *template.Template
		TemplateData interface{}
		TextContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessage renders and sends msg, returning once the provider accepted it.
		SendMessage(ctx context.Context, msg *EmailMessage) error
	}
)

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.Template == nil {
		return nil
	}

	var buff bytes.Buffer
	if err := m.Template.Execute(&buff, m.TemplateData); err != nil {
		return errors.Wrap(err, "executing email template")
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" }

// Prepare renders msg and checks it can be delivered.
func (m *EmailMessage) Prepare() error {
	if err := m.Render(); err != nil {
		return err
	}
	if !m.HasRecipients() {
		return ErrNoRecipients
	}
	return nil
}
