package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yeppakhon/WWDC-search/internal/notify"
	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/corpus"
	"github.com/yeppakhon/WWDC-search/services/playback"
)

type playbackService interface {
	Start(videoID, startTimeLabel string) (models.SessionInfo, error)
	Stop()
	Current() (models.SessionInfo, bool)
	Remote() *playback.RemotePlayer
}

var _ playbackService = (*playback.Service)(nil)

// PreviewHandler drives the preview modal lifecycle: session start/stop, the
// overlay poll, and the remote runtime ready signal.
type PreviewHandler struct {
	Service playbackService
	Overlay *notify.Overlay
	Toaster *notify.Toaster
}

func NewPreviewHandler(service playbackService, overlay *notify.Overlay, toaster *notify.Toaster) *PreviewHandler {
	return &PreviewHandler{Service: service, Overlay: overlay, Toaster: toaster}
}

// Start opens a preview session. A not-ready remote runtime answers 503 with
// the retry notice; the client may simply try again.
func (h *PreviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VideoID   string `json:"videoId"`
		StartTime string `json:"startTime"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, err := h.Service.Start(body.VideoID, body.StartTime)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, playback.ErrPlayerNotReady):
			status = http.StatusServiceUnavailable
		case errors.Is(err, corpus.ErrNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// Stop tears the active session down. Idempotent.
func (h *PreviewHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.Service.Stop()
	w.WriteHeader(http.StatusNoContent)
}

type overlayResponse struct {
	Overlay models.OverlaySnapshot `json:"overlay"`
	Toast   string                 `json:"toast,omitempty"`
	Session *models.SessionInfo    `json:"session,omitempty"`
}

// Overlay is the client's 200ms poll target: current overlay state, the
// transient notice if one is showing, and the active session descriptor.
func (h *PreviewHandler) OverlayState(w http.ResponseWriter, r *http.Request) {
	resp := overlayResponse{
		Overlay: h.Overlay.Snapshot(),
		Toast:   h.Toaster.Current(),
	}
	if info, ok := h.Service.Current(); ok {
		resp.Session = &info
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// PlayerReady records the remote player runtime's ready signal.
func (h *PreviewHandler) PlayerReady(w http.ResponseWriter, r *http.Request) {
	h.Service.Remote().SetRuntimeReady()
	w.WriteHeader(http.StatusNoContent)
}

func (h *PreviewHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
