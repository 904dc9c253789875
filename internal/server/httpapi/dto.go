package httpapi

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/opt"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

// Due dates travel as plain calendar dates.
const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due must be YYYY-MM-DD", common.ErrorValidation)
	}
	return d, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// --- auth ---

type signupRequest struct {
	// The frontend sends either "username" or "name"; username wins.
	Username      string `json:"username"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	AgreedToTerms *bool  `json:"agreed_to_terms"`
}

func (r signupRequest) username() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Name
}

func (r signupRequest) agreed() bool {
	if r.AgreedToTerms == nil {
		return true
	}
	return *r.AgreedToTerms
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type userProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        userProfile `json:"user"`
}

func newTokenResponse(token string, user *models.User) tokenResponse {
	return tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userProfile{ID: user.ID, Name: user.Username, Email: user.Email},
	}
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// --- tasks ---

type createTaskRequest struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Due         *string `json:"due"`
	Priority    string  `json:"priority"`
	Completed   bool    `json:"completed"`
}

func (r createTaskRequest) toParams() (services.CreateTaskParams, error) {
	params := services.CreateTaskParams{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Completed:   r.Completed,
	}
	if r.Due != nil && *r.Due != "" {
		due, err := parseDate(*r.Due)
		if err != nil {
			return services.CreateTaskParams{}, err
		}
		params.Due = &due
	}
	return params, nil
}

type patchTaskRequest struct {
	Title       opt.Value[string] `json:"title"`
	Description opt.Value[string] `json:"description"`
	Due         opt.Value[string] `json:"due"`
	Priority    opt.Value[string] `json:"priority"`
	Completed   opt.Value[bool]   `json:"completed"`
}

func (r patchTaskRequest) toPatch() (services.TaskPatch, error) {
	patch := services.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Completed:   r.Completed,
	}
	if r.Due.IsSet() {
		if s, ok := r.Due.Get(); ok {
			due, err := parseDate(s)
			if err != nil {
				return services.TaskPatch{}, err
			}
			patch.Due = opt.Of(due)
		} else {
			patch.Due = opt.Null[time.Time]()
		}
	}
	return patch, nil
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Due         *string   `json:"due"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Due:         formatDate(task.Due),
		Priority:    task.Priority,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newTaskListResponse(tasks []*models.Task) []taskResponse {
	result := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, newTaskResponse(task))
	}
	return result
}
