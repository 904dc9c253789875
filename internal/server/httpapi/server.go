// Package httpapi exposes the authentication and task endpoints over
// HTTP+JSON. All task and profile routes sit behind the bearer-token
// middleware; signup, login and the stub endpoints are public.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type userSvc interface {
	Register(ctx context.Context, username, email, password string, agreedToTerms bool) (*models.User, error)
	Login(ctx context.Context, username, email, password string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type taskSvc interface {
	Create(ctx context.Context, userID int64, params services.CreateTaskParams) (*models.Task, error)
	List(ctx context.Context, userID int64) ([]*models.Task, error)
	Get(ctx context.Context, userID int64, taskID string) (*models.Task, error)
	Patch(ctx context.Context, userID int64, taskID string, patch services.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID int64, taskID string) error
}

type Server struct {
	address     string
	logger      logging.Logger
	users       userSvc
	tasks       taskSvc
	jwtSecret   []byte
	corsOrigins []string
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ts *services.TaskService) *Server {
	return &Server{
		address:     cfg.EndpointAddrHTTP,
		logger:      l.With("module", "httpapi"),
		users:       us,
		tasks:       ts,
		jwtSecret:   []byte(cfg.SecretKey),
		corsOrigins: cfg.CORSAllowedOrigins,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
