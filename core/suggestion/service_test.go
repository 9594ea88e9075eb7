package suggestion

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/tests"
)

type mailMock struct {
	sent []*core.EmailMessage
	err  error
}

func (m *mailMock) SendMessage(_ context.Context, msg *core.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	if err := msg.Prepare(); err != nil {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestService(mailSvc core.EmailService) *Service {
	validate, _ := core.NewValidator()
	return NewService(mailSvc, validate, testutil.NewConfig())
}

func TestService_Submit(t *testing.T) {
	mailSvc := &mailMock{}
	svc := newTestService(mailSvc)
	ctx := context.Background()

	err := svc.Submit(ctx, "10.0.0.1", Request{NewEmails: []string{" Ana@IFPR.edu.br ", "rui@ifpr.edu.br"}})
	require.NoError(t, err)
	require.Len(t, mailSvc.sent, 1)

	msg := mailSvc.sent[0]
	assert.Equal(t, "rep@iiw24.test", msg.To[0].Address)
	assert.Equal(t, "Sugestão de novo(s) e-mail(s) de professor", msg.Subject)
	assert.Equal(t, "E-mails sugeridos: ana@ifpr.edu.br, rui@ifpr.edu.br\n\nDescrição: Não informado", msg.TextContent)

	err = svc.Submit(ctx, "10.0.0.1", Request{NewEmails: []string{"leo@ifpr.edu.br"}, Description: " Redes "})
	require.NoError(t, err)
	assert.Contains(t, mailSvc.sent[1].TextContent, "Descrição: Redes")
}

func TestService_Submit_Invalid(t *testing.T) {
	mailSvc := &mailMock{}
	svc := newTestService(mailSvc)
	ctx := context.Background()

	tests := []struct {
		name   string
		emails []string
	}{
		{name: "nil", emails: nil},
		{name: "blank only", emails: []string{" ", ""}},
		{name: "malformed", emails: []string{"ana@ifpr.edu.br", "not-an-email"}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Submit(ctx, "client"+string(rune('a'+i)), Request{NewEmails: tt.emails})
			var verrs validator.ValidationErrors
			assert.True(t, errors.As(err, &verrs), "got %v", err)
		})
	}
	assert.Empty(t, mailSvc.sent)
}

func TestService_RateLimit(t *testing.T) {
	now := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	mailSvc := &mailMock{}
	svc := newTestService(mailSvc)
	ctx := context.Background()
	req := Request{NewEmails: []string{"ana@ifpr.edu.br"}}

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Submit(ctx, "10.0.0.1", req))
	}
	assert.ErrorIs(t, svc.Submit(ctx, "10.0.0.1", req), ErrRateLimited)
	assert.NoError(t, svc.Submit(ctx, "10.0.0.2", req), "limits are per client")

	now = now.Add(time.Hour + time.Minute)
	assert.NoError(t, svc.Submit(ctx, "10.0.0.1", req), "window elapsed")
	assert.Len(t, mailSvc.sent, 5)
}

func TestService_RateLimit_FixedWindow(t *testing.T) {
	start := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)
	now := start
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	mailSvc := &mailMock{}
	svc := newTestService(mailSvc)
	ctx := context.Background()
	req := Request{NewEmails: []string{"ana@ifpr.edu.br"}}

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Submit(ctx, "10.0.0.1", req))
	}

	now = start.Add(21 * time.Minute)
	assert.ErrorIs(t, svc.Submit(ctx, "10.0.0.1", req), ErrRateLimited)
	now = start.Add(42 * time.Minute)
	assert.ErrorIs(t, svc.Submit(ctx, "10.0.0.1", req), ErrRateLimited)
	now = start.Add(time.Hour)
	assert.ErrorIs(t, svc.Submit(ctx, "10.0.0.1", req), ErrRateLimited, "the window is still open at exactly one hour")
	assert.Len(t, mailSvc.sent, 3)

	now = start.Add(time.Hour + time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Submit(ctx, "10.0.0.1", req))
	}
	assert.ErrorIs(t, svc.Submit(ctx, "10.0.0.1", req), ErrRateLimited)
	assert.Len(t, mailSvc.sent, 6)
}

func TestService_Submit_MailError(t *testing.T) {
	svc := newTestService(&mailMock{err: errors.New("smtp down")})
	err := svc.Submit(context.Background(), "10.0.0.1", Request{NewEmails: []string{"ana@ifpr.edu.br"}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
}
