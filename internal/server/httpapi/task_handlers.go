package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := userFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tasks, err := s.tasks.List(ctx, user.ID)
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newTaskListResponse(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := userFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	params, err := req.toParams()
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	task, err := s.tasks.Create(ctx, user.ID, params)
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "task created", "user_id", user.ID, "task_id", task.ID)
	s.writeJSON(w, http.StatusCreated, newTaskResponse(task))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := userFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task, err := s.tasks.Get(ctx, user.ID, mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newTaskResponse(task))
}

func (s *Server) handlePatchTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := userFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID := mux.Vars(r)["id"]

	var req patchTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	task, err := s.tasks.Patch(ctx, user.ID, taskID, patch)
	if err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := userFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	taskID := mux.Vars(r)["id"]

	if err := s.tasks.Delete(ctx, user.ID, taskID); err != nil {
		s.writeServiceError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "task deleted", "user_id", user.ID, "task_id", taskID)
	w.WriteHeader(http.StatusNoContent)
}
