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

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/profile"
	"github.com/Tawhide16/CampusKit/core/quiz"
	"github.com/Tawhide16/CampusKit/core/workspace"
)

type ServerDeps struct {
	Conf           *core.Config
	Logger         core.Logger
	Registry       *workspace.Registry
	Quiz           *quiz.Manager
	ProfileSvc     *profile.Service
	Validate       *validator.Validate
	Translator     ut.Translator
	DisableReqLogs bool
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	revoked  *revocationList
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	if deps.Quiz == nil {
		deps.Quiz = quiz.NewManager()
	}
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		revoked:  newRevocationList(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.deps.Conf.Debug

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.deps.Conf.IsTest()) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1", middleware.JWTWithConfig(jwtConfig(s.deps.Conf)), revocationMiddleware(s.revoked))

	registerAuthAPI(v1, s.revoked, s.deps.ProfileSvc, s.deps.Validate)
	registerScheduleAPI(v1, s.deps.Registry)
	registerBudgetAPI(v1, s.deps.Registry, s.deps.Validate)
	registerQAAPI(v1, s.deps.Registry)
	registerQuizAPI(v1, s.deps.Registry, s.deps.Quiz, s.deps.Validate)
	registerPlannerAPI(v1, s.deps.Registry)
}

// Start listens on the configured address; failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
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
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}

// contextWorkspace returns the signed-in user's workspace.
func contextWorkspace(ctx echo.Context, reg *workspace.Registry) (*workspace.Workspace, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Workspace(claims.Subject), nil
}
