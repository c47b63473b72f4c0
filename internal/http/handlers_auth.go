package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserJSON(user, token))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserJSON(user, token))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserJSON(user, ""))
}
