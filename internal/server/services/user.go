// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login, identity lookup, and password
// changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
//   - Register: create users and mint their first token
//   - Login: verify credentials and mint tokens
//   - GetUser: resolve a token subject back to a user record
//   - ChangePassword: verify the old password and store a new hash
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	passwordHashCost            int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		passwordHashCost:            cfg.PasswordHashCost,
	}
}

// IssueToken mints a bearer token whose subject is the user's id.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Register creates a new user. Username and email must be globally unique;
// the duplicate field is reported distinctly (ErrorEmailTaken or
// ErrorUsernameTaken, both matching ErrorAlreadyExists).
func (s *UserService) Register(ctx context.Context, username, email, password string, agreedToTerms bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: malformed email", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password, s.passwordHashCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		AgreedToTerms: agreedToTerms,
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		// The unique constraints backstop the pre-checks under concurrency.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the password for the user identified by email (preferred)
// or username. Unknown identifier and wrong password are indistinguishable
// to the caller: both yield ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, email, password string) (*models.User, error) {
	if (username == "" && email == "") || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	var user *models.User
	var err error
	if email != "" {
		user, err = repo.GetByEmail(ctx, email)
	} else {
		user, err = repo.GetByUsername(ctx, username)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// GetUser resolves a user id (the token subject) back to a user record.
// Vanished subjects yield ErrorUnauthorized: a token may outlive its user.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// ChangePassword verifies oldPassword and stores a hash of newPassword.
// A mismatching old password yields ErrorValidation.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password must not be empty", common.ErrorValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return common.ErrorInternal
		}

		if !auth.CheckPassword(oldPassword, user.PasswordHash) {
			return fmt.Errorf("%w: old password mismatch", common.ErrorValidation)
		}

		hash, err := auth.HashPassword(newPassword, s.passwordHashCost)
		if err != nil {
			return common.ErrorInternal
		}

		return repo.UpdatePassword(ctx, userID, hash)
	})
}
