package suggestion

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/iiw24/turma/core"
)

const subject = "Sugestão de novo(s) e-mail(s) de professor"

var (
	ErrRateLimited = errors.New("suggestion limit reached, try again later")

	nowFunc = time.Now // mockable
)

// visitor holds the submissions a client has left in its current window.
// The limiter never refills; a new one is issued when the window is over.
type visitor struct {
	limiter     *rate.Limiter
	windowStart time.Time
}

// Service forwards teacher email suggestions to the class representative, rate limited per client.
type Service struct {
	mailSvc  core.EmailService
	validate *validator.Validate
	to       string
	limit    int
	window   time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
}

func NewService(mailSvc core.EmailService, validate *validator.Validate, conf *core.Config) *Service {
	limit := conf.Suggestion.Limit
	if limit < 1 {
		limit = 1
	}
	return &Service{
		mailSvc:  mailSvc,
		validate: validate,
		to:       conf.Email.SuggestionTo,
		limit:    limit,
		window:   conf.Suggestion.Window,
		visitors: make(map[string]*visitor),
	}
}

// Allow consumes one submission of client, reporting whether it is within the limit.
// Windows are fixed: a client gets svc.limit submissions from its first one until svc.window has passed.
func (svc *Service) Allow(client string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := nowFunc()
	for key, v := range svc.visitors {
		if now.Sub(v.windowStart) > svc.window {
			delete(svc.visitors, key)
		}
	}

	v, ok := svc.visitors[client]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(0, svc.limit), windowStart: now}
		svc.visitors[client] = v
	}
	return v.limiter.AllowN(now, 1)
}

// Submit counts the attempt against client's limit, validates req and mails it.
func (svc *Service) Submit(ctx context.Context, client string, req Request) error {
	if !svc.Allow(client) {
		return ErrRateLimited
	}
	if err := req.Validate(svc.validate); err != nil {
		return err
	}

	to, err := mail.ParseAddress(svc.to)
	if err != nil {
		return errors.Wrapf(err, "parsing suggestion recipient %q", svc.to)
	}

	description := req.Description
	if description == "" {
		description = "Não informado"
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{*to},
		Subject: subject,
		BodyStr: "E-mails sugeridos: " + strings.Join(req.NewEmails, ", ") + "\n\nDescrição: " + description,
	}
	if err = svc.mailSvc.SendMessage(ctx, msg); err != nil {
		return errors.Wrap(err, "sending suggestion email")
	}
	return nil
}
