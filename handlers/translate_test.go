package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yeppakhon/WWDC-search/internal/notify"
	"github.com/yeppakhon/WWDC-search/services/translate"
)

type fakeTranslateService struct {
	result    string
	err       error
	cancelled []string

	lastCardID string
	lastText   string
}

func (f *fakeTranslateService) Translate(ctx context.Context, cardID, text string) (string, error) {
	f.lastCardID = cardID
	f.lastText = text
	return f.result, f.err
}

func (f *fakeTranslateService) Cancel(cardID string) {
	f.cancelled = append(f.cancelled, cardID)
}

func TestTranslateSuccess(t *testing.T) {
	fake := &fakeTranslateService{result: "欢迎来到 WWDC"}
	toaster := notify.NewToaster()
	handler := NewTranslateHandler(fake, toaster)

	body := strings.NewReader(`{"id":"v-0","text":"Welcome to WWDC"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translate", body)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fake.lastCardID != "v-0" || fake.lastText != "Welcome to WWDC" {
		t.Errorf("service called with %q %q", fake.lastCardID, fake.lastText)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["translation"] != "欢迎来到 WWDC" {
		t.Errorf("translation = %q", resp["translation"])
	}
	if resp["placeholder"] != "" {
		t.Errorf("unexpected placeholder %q", resp["placeholder"])
	}
	if toaster.Current() != "" {
		t.Errorf("unexpected toast %q", toaster.Current())
	}
}

func TestTranslateFailureAnswersPlaceholder(t *testing.T) {
	fake := &fakeTranslateService{err: errors.New("upstream down")}
	toaster := notify.NewToaster()
	handler := NewTranslateHandler(fake, toaster)

	body := strings.NewReader(`{"id":"v-0","text":"Welcome"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translate", body)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with placeholder", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["placeholder"] != translate.FailurePlaceholder {
		t.Errorf("placeholder = %q, want %q", resp["placeholder"], translate.FailurePlaceholder)
	}
	if toaster.Current() != translate.NoticeFailed {
		t.Errorf("toast = %q, want %q", toaster.Current(), translate.NoticeFailed)
	}
}

func TestTranslateCancelledRequestShowsNoNotice(t *testing.T) {
	fake := &fakeTranslateService{err: context.Canceled}
	toaster := notify.NewToaster()
	handler := NewTranslateHandler(fake, toaster)

	body := strings.NewReader(`{"id":"v-0","text":"Welcome"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translate", body)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if toaster.Current() != "" {
		t.Errorf("cancelled request raised toast %q", toaster.Current())
	}
}

func TestTranslateRequiresIDAndText(t *testing.T) {
	handler := NewTranslateHandler(&fakeTranslateService{}, notify.NewToaster())

	for _, body := range []string{`{"id":"","text":"x"}`, `{"id":"v-0","text":""}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Translate(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestTranslateCancelEndpoint(t *testing.T) {
	fake := &fakeTranslateService{}
	handler := NewTranslateHandler(fake, notify.NewToaster())

	body := strings.NewReader(`{"id":"v-0"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translate/cancel", body)
	rec := httptest.NewRecorder()
	handler.Cancel(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(fake.cancelled) != 1 || fake.cancelled[0] != "v-0" {
		t.Errorf("cancelled = %v", fake.cancelled)
	}
}
