// Package notify holds the two pieces of shared UI state the playback and
// search flows mutate: the transient toast message and the subtitle overlay.
package notify

import (
	"sync"
	"time"

	"github.com/yeppakhon/WWDC-search/models"
)

// ToastDuration is how long a notice stays visible before auto-hiding.
const ToastDuration = 3 * time.Second

// Toaster shows one transient message at a time. Only the latest message is
// guaranteed visible; a newer notice supersedes the pending hide of the
// previous one.
type Toaster struct {
	mu      sync.Mutex
	message string
	hide    *time.Timer
}

func NewToaster() *Toaster {
	return &Toaster{}
}

// Notify replaces the visible message and re-arms the auto-hide timer.
func (t *Toaster) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.message = message
	if t.hide != nil {
		t.hide.Stop()
	}
	t.hide = time.AfterFunc(ToastDuration, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.message == message {
			t.message = ""
		}
	})
}

// Current returns the visible message, empty when nothing is showing.
func (t *Toaster) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// Overlay is the subtitle region synchronized to playback time. Hide toggles
// visibility without clearing content, so reappearing at the next matching
// interval is cheap.
type Overlay struct {
	mu      sync.Mutex
	visible bool
	text    string
	textCN  string
}

func NewOverlay() *Overlay {
	return &Overlay{}
}

func (o *Overlay) Show(text, textCN string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.text = text
	o.textCN = textCN
	o.visible = true
}

func (o *Overlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = false
}

// Clear resets content as well; used when a session is torn down.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = false
	o.text = ""
	o.textCN = ""
}

func (o *Overlay) Snapshot() models.OverlaySnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return models.OverlaySnapshot{Visible: o.visible, Text: o.text, TextCN: o.textCN}
}
