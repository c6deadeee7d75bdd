package http

import (
	"net/http"
	"strings"
)

// handleQuotes serves market quotes for a comma-separated symbol list.
// Quotes are public data; guests are welcome.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if s.market == nil {
		http.Error(w, "market data not configured", http.StatusNotFound)
		return
	}

	raw := r.URL.Query().Get("symbols")
	if strings.TrimSpace(raw) == "" {
		http.Error(w, "symbols query parameter required", http.StatusBadRequest)
		return
	}
	symbols := strings.Split(raw, ",")
	if len(symbols) > 20 {
		http.Error(w, "too many symbols", http.StatusBadRequest)
		return
	}

	quotes, err := s.market.GetQuotes(r.Context(), symbols)
	if err != nil {
		http.Error(w, "quote provider unavailable", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}
