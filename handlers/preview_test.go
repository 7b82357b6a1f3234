package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yeppakhon/WWDC-search/internal/notify"
	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/corpus"
	"github.com/yeppakhon/WWDC-search/services/playback"
)

type fakePlaybackService struct {
	remote   *playback.RemotePlayer
	info     models.SessionInfo
	startErr error
	active   bool
	stopped  bool

	lastVideoID string
	lastStart   string
}

func newFakePlaybackService() *fakePlaybackService {
	return &fakePlaybackService{remote: playback.NewRemotePlayer(nil)}
}

func (f *fakePlaybackService) Start(videoID, startTimeLabel string) (models.SessionInfo, error) {
	f.lastVideoID = videoID
	f.lastStart = startTimeLabel
	if f.startErr != nil {
		return models.SessionInfo{}, f.startErr
	}
	f.active = true
	return f.info, nil
}

func (f *fakePlaybackService) Stop() {
	f.stopped = true
	f.active = false
}

func (f *fakePlaybackService) Current() (models.SessionInfo, bool) {
	return f.info, f.active
}

func (f *fakePlaybackService) Remote() *playback.RemotePlayer { return f.remote }

func newPreviewHandler(svc *fakePlaybackService) (*PreviewHandler, *notify.Overlay, *notify.Toaster) {
	overlay := notify.NewOverlay()
	toaster := notify.NewToaster()
	return NewPreviewHandler(svc, overlay, toaster), overlay, toaster
}

func TestPreviewStart(t *testing.T) {
	fake := newFakePlaybackService()
	fake.info = models.SessionInfo{Fingerprint: "fp-1", VideoID: "wwdc2023-intro"}
	handler, _, _ := newPreviewHandler(fake)

	body := strings.NewReader(`{"videoId":"wwdc2023-intro","startTime":"00:10"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if fake.lastVideoID != "wwdc2023-intro" || fake.lastStart != "00:10" {
		t.Errorf("service called with %q %q", fake.lastVideoID, fake.lastStart)
	}

	var info models.SessionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if info.Fingerprint != "fp-1" {
		t.Errorf("fingerprint = %q", info.Fingerprint)
	}
}

func TestPreviewStartPlayerNotReady(t *testing.T) {
	fake := newFakePlaybackService()
	fake.startErr = playback.ErrPlayerNotReady
	handler, _, _ := newPreviewHandler(fake)

	body := strings.NewReader(`{"videoId":"wwdc2023-intro","startTime":"00:10"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestPreviewStartUnknownVideo(t *testing.T) {
	fake := newFakePlaybackService()
	fake.startErr = fmt.Errorf("start preview: %w", corpus.ErrNotFound)
	handler, _, _ := newPreviewHandler(fake)

	body := strings.NewReader(`{"videoId":"absent","startTime":"00:10"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPreviewStartRejectsUnknownFields(t *testing.T) {
	handler, _, _ := newPreviewHandler(newFakePlaybackService())

	body := strings.NewReader(`{"videoId":"x","startTime":"00:10","bogus":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/preview", body)
	rec := httptest.NewRecorder()
	handler.Start(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPreviewStop(t *testing.T) {
	fake := newFakePlaybackService()
	fake.active = true
	handler, _, _ := newPreviewHandler(fake)

	req := httptest.NewRequest(http.MethodDelete, "/api/preview", nil)
	rec := httptest.NewRecorder()
	handler.Stop(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if !fake.stopped {
		t.Error("service Stop not called")
	}
}

func TestOverlayStatePoll(t *testing.T) {
	fake := newFakePlaybackService()
	fake.info = models.SessionInfo{Fingerprint: "fp-1"}
	fake.active = true
	handler, overlay, toaster := newPreviewHandler(fake)

	overlay.Show("Welcome", "欢迎")
	toaster.Notify("提示")

	req := httptest.NewRequest(http.MethodGet, "/api/preview/overlay", nil)
	rec := httptest.NewRecorder()
	handler.OverlayState(rec, req)

	var resp struct {
		Overlay models.OverlaySnapshot `json:"overlay"`
		Toast   string                 `json:"toast"`
		Session *models.SessionInfo    `json:"session"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Overlay.Visible || resp.Overlay.Text != "Welcome" || resp.Overlay.TextCN != "欢迎" {
		t.Errorf("overlay = %+v", resp.Overlay)
	}
	if resp.Toast != "提示" {
		t.Errorf("toast = %q", resp.Toast)
	}
	if resp.Session == nil || resp.Session.Fingerprint != "fp-1" {
		t.Errorf("session = %+v", resp.Session)
	}
}

func TestOverlayStateNoSession(t *testing.T) {
	handler, _, _ := newPreviewHandler(newFakePlaybackService())

	req := httptest.NewRequest(http.MethodGet, "/api/preview/overlay", nil)
	rec := httptest.NewRecorder()
	handler.OverlayState(rec, req)

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp["session"]; ok {
		t.Error("session present without an active preview")
	}
}

func TestPlayerReadySignal(t *testing.T) {
	fake := newFakePlaybackService()
	handler, _, _ := newPreviewHandler(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/preview/player-ready", nil)
	rec := httptest.NewRecorder()
	handler.PlayerReady(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if !fake.remote.RuntimeReady() {
		t.Error("runtime ready signal not recorded")
	}
}
