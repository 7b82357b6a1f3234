package playback

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// ErrUnplayableSource reports a local media file that is missing or not a
// video. Non-fatal: the session stays open degraded and the sync loop has
// nothing valid to read.
var ErrUnplayableSource = errors.New("local media source is not playable")

// LocalPlayer models the local file media element: set-source, seek, play,
// pause. Unlike the remote player its clock is only valid while playing.
type LocalPlayer struct {
	mu      sync.Mutex
	fs      afero.Fs
	source  string
	playing bool
	offset  float64
	basis   time.Time
	now     func() time.Time
}

// NewLocalPlayer reads media through fs; nil now means time.Now.
func NewLocalPlayer(fs afero.Fs, now func() time.Time) *LocalPlayer {
	if now == nil {
		now = time.Now
	}
	return &LocalPlayer{fs: fs, now: now}
}

// SetSource points the player at a media path and resets the clock.
func (p *LocalPlayer) SetSource(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = path
	p.playing = false
	p.offset = 0
}

func (p *LocalPlayer) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = seconds
	p.basis = p.now()
}

// Play verifies the source exists and sniffs a video content type before
// starting the clock.
func (p *LocalPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkSourceLocked(); err != nil {
		return err
	}
	p.basis = p.now()
	p.playing = true
	return nil
}

func (p *LocalPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.offset += p.now().Sub(p.basis).Seconds()
	p.playing = false
}

// CurrentTime is valid only while playing; a paused local element exposes no
// usable position to the sync loop.
func (p *LocalPlayer) CurrentTime() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return 0, false
	}
	return p.offset + p.now().Sub(p.basis).Seconds(), true
}

func (p *LocalPlayer) checkSourceLocked() error {
	if strings.TrimSpace(p.source) == "" {
		return fmt.Errorf("%w: no source set", ErrUnplayableSource)
	}

	f, err := p.fs.Open(p.source)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s missing", ErrUnplayableSource, p.source)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", p.source, err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("detect %s: %w", p.source, err)
	}
	if !strings.HasPrefix(mt.String(), "video/") {
		return fmt.Errorf("%w: %s is %s", ErrUnplayableSource, p.source, mt.String())
	}
	return nil
}
