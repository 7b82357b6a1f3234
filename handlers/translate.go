package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/yeppakhon/WWDC-search/internal/notify"
	"github.com/yeppakhon/WWDC-search/services/translate"
)

type translateService interface {
	Translate(ctx context.Context, cardID, text string) (string, error)
	Cancel(cardID string)
}

var _ translateService = (*translate.Service)(nil)

// TranslateHandler proxies the best-effort remote translation call.
type TranslateHandler struct {
	Service translateService
	Toaster *notify.Toaster
}

func NewTranslateHandler(service translateService, toaster *notify.Toaster) *TranslateHandler {
	return &TranslateHandler{Service: service, Toaster: toaster}
}

type translateRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type translateResponse struct {
	ID          string `json:"id"`
	Translation string `json:"translation,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Translate runs one card's translation. Failure answers 200 with the
// per-card placeholder rather than an error status: the card stays
// interactive and the action is retryable.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.ID) == "" || body.Text == "" {
		http.Error(w, "id and text are required", http.StatusBadRequest)
		return
	}

	translation, err := h.Service.Translate(r.Context(), body.ID, body.Text)
	resp := translateResponse{ID: body.ID}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("[translate] card %s: %v", body.ID, err)
			h.Toaster.Notify(translate.NoticeFailed)
		}
		resp.Placeholder = translate.FailurePlaceholder
	} else {
		resp.Translation = translation
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Cancel aborts a card's in-flight translation, used on card teardown and
// modal close.
func (h *TranslateHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.ID) == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	h.Service.Cancel(body.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *TranslateHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
