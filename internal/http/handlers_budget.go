package http

import (
	"net/http"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
)

type setBudgetRequest struct {
	Amount string `json:"amount"`
}

// handleBudget serves GET (load the current period) and POST/PUT (set the
// period budget ceiling).
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := s.ledger.LoadPeriod(r.Context(), user.UID, nil)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case http.MethodPost, http.MethodPut:
		var req setBudgetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		cents, err := parseBudgetAmount(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.ledger.SetBudget(r.Context(), user.UID, cents); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

// parseBudgetAmount accepts "0" for clearing the ceiling, which the
// transaction parser rejects.
func parseBudgetAmount(amount string) (int64, error) {
	if amount == "0" || amount == "0.00" || amount == "0,00" {
		return 0, nil
	}
	return core.ParseDecimalToCents(amount)
}

type addTransactionRequest struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type editTransactionRequest struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type deleteTransactionRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req addTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		tx, err := s.ledger.AddTransaction(r.Context(), user.UID, req.Category, req.Amount, req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tx)

	case http.MethodPut:
		var req editTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.ledger.EditTransaction(r.Context(), user.UID, req.ID, req.Amount, req.Description); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		var req deleteTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.ledger.DeleteTransaction(r.Context(), user.UID, req.ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}

type addIncomeRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addIncomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := s.ledger.AddIncome(r.Context(), user.UID, req.Amount, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

type addCategoryRequest struct {
	Name  string `json:"name"`
	Limit string `json:"limit,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type removeCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req addCategoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		cat := core.Category{Name: req.Name, Icon: req.Icon, Color: req.Color}
		if req.Limit != "" {
			cents, err := core.ParseDecimalToCents(req.Limit)
			if err != nil {
				writeError(w, r, err)
				return
			}
			cat.LimitCents = cents
		}
		if err := s.ledger.AddCategory(r.Context(), user.UID, cat); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodDelete:
		var req removeCategoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.ledger.RemoveCategory(r.Context(), user.UID, req.Name); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w)
	}
}
