package http

import (
	"net/http"

	"github.com/Maxerns/moneymentor-sub000/internal/core"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := s.profiles.Get(r.Context(), user.UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// The bank token never leaves the service.
	doc.Bank.AccessToken = ""
	writeJSON(w, http.StatusOK, doc)
}

type setFinancialsRequest struct {
	Budget  *string `json:"budget,omitempty"`
	Savings *string `json:"savings,omitempty"`
	Debt    *string `json:"debt,omitempty"`
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setFinancialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var budget, savings, debt *int64
	for _, f := range []struct {
		in  *string
		out **int64
	}{
		{req.Budget, &budget},
		{req.Savings, &savings},
		{req.Debt, &debt},
	} {
		if f.in == nil {
			continue
		}
		cents, err := parseBudgetAmount(*f.in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		*f.out = &cents
	}

	if err := s.profiles.SetFinancials(r.Context(), user.UID, budget, savings, debt); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setThemeRequest struct {
	DarkTheme bool `json:"darkTheme"`
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.profiles.SetDarkTheme(r.Context(), user.UID, req.DarkTheme); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type linkBankRequest struct {
	AccessToken string             `json:"accessToken"`
	Accounts    []core.BankAccount `json:"accounts"`
}

func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req linkBankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.profiles.LinkBank(r.Context(), user.UID, req.AccessToken, req.Accounts); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	user, err := s.requireUser(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.profiles.DeleteAll(r.Context(), user.UID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
