package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yeppakhon/WWDC-search/services/history"
)

type historyService interface {
	List() []string
	Remove(query string)
	Clear(confirm history.ConfirmFunc) bool
}

var _ historyService = (*history.Service)(nil)

// HistoryHandler exposes the search-history list. Additions happen as a side
// effect of searching, so the surface is read/remove/clear only.
type HistoryHandler struct {
	Service historyService
}

func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.Service.List()
	if entries == nil {
		entries = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Delete removes one entry (?q=) or, with ?all=true, clears the whole list.
// Clearing additionally requires confirm=true, standing in for the blocking
// yes/no prompt a local UI would show.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("all") == "true" {
		confirmed := q.Get("confirm") == "true"
		cleared := h.Service.Clear(func(string) bool { return confirmed })
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"cleared": cleared})
		return
	}

	query := q.Get("q")
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	h.Service.Remove(query)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HistoryHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
