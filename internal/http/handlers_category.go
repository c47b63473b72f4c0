package http

import (
	"net/http"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := s.categories.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]categoryJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}
