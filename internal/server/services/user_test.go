package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	tasksrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		PasswordHashCost:            auth.MinPasswordCost,
	}
}

type fakeUsersRepo struct {
	byID       *models.User
	byIDErr    error
	byName     *models.User
	byNameErr  error
	byEmail    *models.User
	byEmailErr error

	createIn  *models.User
	createErr error

	updatedPasswordHash string
	updatePasswordErr   error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.createIn = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	u.IsActive = true
	u.CreatedAt = time.Now()
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.byNameErr != nil {
		return nil, f.byNameErr
	}
	return f.byName, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmail, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	f.updatedPasswordHash = hash
	return f.updatePasswordErr
}

type fakeTasksRepo struct {
	createIn  *models.Task
	createErr error

	getOut *models.Task
	getErr error

	listOut []*models.Task
	listErr error

	updateIn  *models.Task
	updateErr error

	deleteErr error
	deletedID string
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	f.createIn = task
	if f.createErr != nil {
		return nil, f.createErr
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	return task, nil
}

func (f *fakeTasksRepo) GetByID(ctx context.Context, userID int64, taskID string) (*models.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeTasksRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	f.updateIn = task
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	task.UpdatedAt = time.Now()
	return task, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, userID int64, taskID string) error {
	f.deletedID = taskID
	return f.deleteErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository         { return m.t }

// --- Register ---

func TestUserService_Register_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound, byNameErr: common.ErrorNotFound}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	user, err := s.Register(context.Background(), " alice ", "a@x.com", "p1", true)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if repo.createIn.PasswordHash == "p1" || repo.createIn.PasswordHash == "" {
		t.Fatal("password must be stored as a hash, never plaintext")
	}
	if !auth.CheckPassword("p1", repo.createIn.PasswordHash) {
		t.Fatal("stored hash must verify against the original password")
	}
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeUsersRepo{byEmail: &models.User{ID: 2}}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	_, err := s.Register(context.Background(), "alice", "a@x.com", "p1", true)
	if !errors.Is(err, common.ErrorEmailTaken) {
		t.Fatalf("want ErrorEmailTaken, got %v", err)
	}
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatal("conflict must match ErrorAlreadyExists")
	}
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeUsersRepo{byEmailErr: common.ErrorNotFound, byName: &models.User{ID: 2}}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	_, err := s.Register(context.Background(), "alice", "a@x.com", "p1", true)
	if !errors.Is(err, common.ErrorUsernameTaken) {
		t.Fatalf("want ErrorUsernameTaken, got %v", err)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{u: &fakeUsersRepo{}}, testConfig())

	cases := []struct{ username, email, password string }{
		{"", "a@x.com", "p"},
		{"alice", "", "p"},
		{"alice", "a@x.com", ""},
		{"alice", "not-an-email", "p"},
	}
	for _, c := range cases {
		if _, err := s.Register(context.Background(), c.username, c.email, c.password, true); !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("Register(%q,%q,%q): want ErrorValidation, got %v", c.username, c.email, c.password, err)
		}
	}
}

// --- Login ---

func TestUserService_Login_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	hash, err := auth.HashPassword("p1", auth.MinPasswordCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	repo := &fakeUsersRepo{byEmail: &models.User{ID: 7, Username: "alice", PasswordHash: hash}}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	user, err := s.Login(context.Background(), "", "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("unexpected user: %+v", user)
	}

	tok, err := s.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	userID, err := auth.GetUserIDFromToken(tok, []byte("k"))
	if err != nil || userID != 7 {
		t.Fatalf("token round trip: id=%d err=%v", userID, err)
	}
}

func TestUserService_Login_BadPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	db, _ := newSQLMockDB(t)
	hash, _ := auth.HashPassword("right", auth.MinPasswordCost)

	repoKnown := &fakeUsersRepo{byName: &models.User{ID: 1, PasswordHash: hash}}
	s := NewUserService(db, &fakeRepoManager{u: repoKnown}, testConfig())
	_, errBadPassword := s.Login(context.Background(), "alice", "", "wrong")

	repoUnknown := &fakeUsersRepo{byNameErr: common.ErrorNotFound}
	s2 := NewUserService(db, &fakeRepoManager{u: repoUnknown}, testConfig())
	_, errUnknownUser := s2.Login(context.Background(), "ghost", "", "wrong")

	if !errors.Is(errBadPassword, common.ErrorUnauthorized) || !errors.Is(errUnknownUser, common.ErrorUnauthorized) {
		t.Fatalf("both must be ErrorUnauthorized: %v / %v", errBadPassword, errUnknownUser)
	}
	if errBadPassword.Error() != errUnknownUser.Error() {
		t.Fatal("bad password and unknown user must be indistinguishable to the caller")
	}
}

func TestUserService_Login_MissingInput(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{u: &fakeUsersRepo{}}, testConfig())

	if _, err := s.Login(context.Background(), "", "", "p"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
	if _, err := s.Login(context.Background(), "alice", "", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

// --- GetUser ---

func TestUserService_GetUser_Vanished(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeUsersRepo{byIDErr: common.ErrorNotFound}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	_, err := s.GetUser(context.Background(), 99)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("vanished subject must be unauthorized, got %v", err)
	}
}

// --- ChangePassword ---

func TestUserService_ChangePassword_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	hash, _ := auth.HashPassword("old", auth.MinPasswordCost)
	repo := &fakeUsersRepo{byID: &models.User{ID: 1, PasswordHash: hash}}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	if err := s.ChangePassword(context.Background(), 1, "old", "new"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}
	if !auth.CheckPassword("new", repo.updatedPasswordHash) {
		t.Fatal("new hash must verify against the new password")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestUserService_ChangePassword_OldMismatch(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	hash, _ := auth.HashPassword("old", auth.MinPasswordCost)
	repo := &fakeUsersRepo{byID: &models.User{ID: 1, PasswordHash: hash}}
	s := NewUserService(db, &fakeRepoManager{u: repo}, testConfig())

	err := s.ChangePassword(context.Background(), 1, "wrong", "new")
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
	if repo.updatedPasswordHash != "" {
		t.Fatal("password must not be updated on mismatch")
	}
}

func TestUserService_ChangePassword_EmptyNew(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewUserService(db, &fakeRepoManager{u: &fakeUsersRepo{}}, testConfig())

	if err := s.ChangePassword(context.Background(), 1, "old", ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}
