package http

import (
	"errors"
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	bs, err := s.budgets.List(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]budgetJSON, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBudgetJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var in budgetRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	b := core.Budget{
		Category: in.Category,
		Amount:   core.Money{Cents: core.CentsFromFloat(in.Amount)},
		Period:   core.BudgetPeriod(in.Period),
	}

	created, err := s.budgets.Create(r.Context(), ownerFrom(r), b)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			writeMessage(w, http.StatusBadRequest, "Budget for this category already exists")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBudgetJSON(created))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}

	var in budgetRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.budgets.Update(r.Context(), ownerFrom(r), id,
		core.Money{Cents: core.CentsFromFloat(in.Amount)},
		core.BudgetPeriod(in.Period))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBudgetJSON(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}

	if err := s.budgets.Delete(r.Context(), ownerFrom(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Budget removed"})
}
