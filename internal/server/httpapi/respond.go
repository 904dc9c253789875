package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.writeJSON(w, code, errorResponse{Error: message})
}

// writeServiceError maps sentinel errors from the service layer onto
// response statuses. Anything unrecognized is a 500 with a generic body;
// the concrete error only goes to the log.
func (s *Server) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorEmailTaken):
		s.writeError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, common.ErrorUsernameTaken):
		s.writeError(w, http.StatusBadRequest, "username already taken")
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeError(w, http.StatusBadRequest, "already exists")
	case errors.Is(err, common.ErrorValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, http.StatusNotFound, "task not found")
	case errors.Is(err, common.ErrorUnavailable):
		s.writeError(w, http.StatusNotImplemented, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
