package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/agenda"
	"github.com/iiw24/turma/core/suggestion"
	"github.com/iiw24/turma/core/timetable"
)

type (
	AgendaService interface {
		Query(ctx context.Context, classID string) ([]agenda.Item, error)
		Add(ctx context.Context, classID string, in agenda.ItemInput) (agenda.Item, error)
		Update(ctx context.Context, classID, id string, in agenda.ItemInput) (agenda.Item, error)
		Delete(ctx context.Context, classID, id string) error
		Cleanup(ctx context.Context) (int, error)
	}

	TimetableService interface {
		ByClass(ctx context.Context, className string) (timetable.Document, error)
		ByRoom(ctx context.Context, roomName string) (timetable.Document, error)
		RoomIndex(ctx context.Context) ([]timetable.Block, error)
	}

	SuggestionService interface {
		Submit(ctx context.Context, client string, req suggestion.Request) error
	}

	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		AgendaSvc     AgendaService
		TimetableSvc  TimetableService
		SuggestionSvc SuggestionService
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server struct {
		conf     *core.Config
		logger   core.Logger
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		conf:     deps.Conf,
		logger:   deps.Logger,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(deps)
	return s
}

func (s *Server) setup(deps ServerDeps) {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	auth := newSessionAuth(s.conf)
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, deps.Translator, auth)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	session := auth.middleware()

	registerAuthAPI(api, session, auth, deps.Validate)
	registerAgendaAPI(api, session, deps.AgendaSvc, deps.Validate)
	registerTimetableAPI(api, deps.TimetableSvc, s.logger)
	registerSuggestionAPI(api, deps.SuggestionSvc)
}

// Start listens on the configured address. Errors are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}
