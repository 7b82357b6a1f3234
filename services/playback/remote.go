package playback

import (
	"errors"
	"sync"
	"time"
)

// ErrPlayerNotReady reports that the remote player runtime has not finished
// loading. The start request that hit it created no session; the caller may
// simply retry.
var ErrPlayerNotReady = errors.New("remote player runtime is still loading")

// RemoteParams mirrors the embed construction parameters: autoplay on,
// controls on, related videos suppressed, branding suppressed, start offset
// in whole seconds.
type RemoteParams struct {
	Autoplay       bool `json:"autoplay"`
	Controls       bool `json:"controls"`
	Rel            int  `json:"rel"`
	ModestBranding int  `json:"modestbranding"`
	StartSeconds   int  `json:"start"`
}

func defaultRemoteParams(startSeconds int) RemoteParams {
	return RemoteParams{Autoplay: true, Controls: true, Rel: 0, ModestBranding: 1, StartSeconds: startSeconds}
}

// RemotePlayer models the embedded streaming player. The process holds at
// most one instance; cueing a new identifier reuses it instead of tearing the
// embed down and rebuilding it. The player keeps a virtual clock (cue offset
// plus elapsed playing time) so the sync loop can read the current position.
type RemotePlayer struct {
	mu           sync.Mutex
	runtimeReady bool
	created      bool
	videoID      string
	params       RemoteParams
	playing      bool
	offset       float64
	basis        time.Time
	now          func() time.Time
}

// NewRemotePlayer accepts an injectable clock; nil means time.Now.
func NewRemotePlayer(now func() time.Time) *RemotePlayer {
	if now == nil {
		now = time.Now
	}
	return &RemotePlayer{now: now}
}

// SetRuntimeReady records the one ready signal the player runtime emits.
// Until then every Cue is rejected with ErrPlayerNotReady.
func (p *RemotePlayer) SetRuntimeReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runtimeReady = true
}

func (p *RemotePlayer) RuntimeReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runtimeReady
}

// Cue loads videoID at startSeconds and begins playback. The first call
// constructs the instance with the embed parameters; later calls re-cue the
// existing instance.
func (p *RemotePlayer) Cue(videoID string, startSeconds int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.runtimeReady {
		return ErrPlayerNotReady
	}

	if !p.created {
		p.created = true
		p.params = defaultRemoteParams(startSeconds)
	}
	p.videoID = videoID
	p.offset = float64(startSeconds)
	p.basis = p.now()
	p.playing = true
	return nil
}

func (p *RemotePlayer) play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.created || p.playing {
		return
	}
	p.basis = p.now()
	p.playing = true
}

// Pause freezes the clock. Safe to call repeatedly or before any cue.
func (p *RemotePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.created || !p.playing {
		return
	}
	p.offset += p.now().Sub(p.basis).Seconds()
	p.playing = false
}

// CurrentTime reports the playback position. Valid whenever an instance
// exists, frozen while paused.
func (p *RemotePlayer) CurrentTime() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.created {
		return 0, false
	}
	if !p.playing {
		return p.offset, true
	}
	return p.offset + p.now().Sub(p.basis).Seconds(), true
}
