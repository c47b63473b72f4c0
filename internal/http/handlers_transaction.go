package http

import (
	"net/http"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ts, err := s.transactions.List(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]transactionJSON, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	t, err := in.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), ownerFrom(r), t)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}

	t, err := s.transactions.Get(r.Context(), ownerFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionJSON(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}

	var in transactionRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	t, err := in.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.transactions.Update(r.Context(), ownerFrom(r), id, t)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}

	if err := s.transactions.Delete(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction removed"})
}
