package playback

import (
	"context"
	"log"
	"time"

	"github.com/yeppakhon/WWDC-search/internal/timecode"
	"github.com/yeppakhon/WWDC-search/models"
)

// DefaultSyncInterval is the overlay polling period.
const DefaultSyncInterval = 200 * time.Millisecond

// interval is one subtitle window with its labels resolved to seconds at arm
// time, so the 200ms tick does no parsing.
type interval struct {
	start  int
	end    int
	text   string
	textCN string
}

// syncLoop is the armed/disarmed handle around the polling goroutine.
// Exactly one loop is armed at a time; it holds no independent lifetime and
// is strictly scoped to its owning session.
type syncLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func buildIntervals(subs []models.Subtitle) []interval {
	intervals := make([]interval, 0, len(subs))
	for _, sub := range subs {
		start, err := timecode.ToSeconds(sub.StartTime)
		if err != nil {
			log.Printf("[playback] skipping subtitle with bad start %q: %v", sub.StartTime, err)
			continue
		}
		end, err := timecode.ToSeconds(sub.EndTime)
		if err != nil {
			log.Printf("[playback] skipping subtitle with bad end %q: %v", sub.EndTime, err)
			continue
		}
		intervals = append(intervals, interval{start: start, end: end, text: sub.Text, textCN: sub.TextCN})
	}
	return intervals
}

// armLocked replaces any previous loop with a fresh one polling backend.
// Callers hold s.mu, which is what guarantees disarm-before-arm ordering.
func (s *Service) armLocked(subs []models.Subtitle, backend Backend) {
	s.disarmLocked()

	ctx, cancel := context.WithCancel(context.Background())
	loop := &syncLoop{cancel: cancel, done: make(chan struct{})}
	s.loop = loop

	intervals := buildIntervals(subs)
	go s.runLoop(ctx, loop, intervals, backend)
}

// disarmLocked cancels the current loop and waits for its goroutine to exit,
// so no two tickers ever poll the overlay concurrently.
func (s *Service) disarmLocked() {
	if s.loop == nil {
		return
	}
	s.loop.cancel()
	<-s.loop.done
	s.loop = nil
}

func (s *Service) runLoop(ctx context.Context, loop *syncLoop, intervals []interval, backend Backend) {
	defer close(loop.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncTick(intervals, backend)
		}
	}
}

// syncTick is one poll of the backend clock against the subtitle intervals.
// No valid time (paused local element, no backend) leaves the overlay
// untouched; a gap between intervals hides it without clearing content.
func (s *Service) syncTick(intervals []interval, backend Backend) {
	current, ok := backend.CurrentTime()
	if !ok {
		return
	}

	// Intervals are disjoint, so the first hit is the only hit.
	for _, iv := range intervals {
		if current >= float64(iv.start) && current <= float64(iv.end) {
			s.overlay.Show(iv.text, iv.textCN)
			return
		}
	}
	s.overlay.Hide()
}
