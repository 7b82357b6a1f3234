// Package playback owns the preview lifecycle: which backend is showing which
// segment, and the polling loop that keeps the subtitle overlay aligned with
// the backend's clock. At most one session is active at a time; starting a
// new one tears the previous one down first.
package playback

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/yeppakhon/WWDC-search/internal/notify"
	"github.com/yeppakhon/WWDC-search/internal/timecode"
	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/corpus"
)

// Backend is the playback clock the sync loop reads. Both players satisfy it.
type Backend interface {
	CurrentTime() (float64, bool)
	Pause()
}

// Notice messages surfaced through the toaster.
const (
	NoticePlayerLoading = "正在加载播放器，请稍候..."
	noticeLocalFailFmt  = "提示: 无法播放本地 %s"
)

// session is the currently active playback state.
type session struct {
	info    models.SessionInfo
	backend Backend
}

// Service manages playback sessions over the two heterogeneous backends.
type Service struct {
	corpus    *corpus.Service
	overlay   *notify.Overlay
	toaster   *notify.Toaster
	remote    *RemotePlayer
	local     *LocalPlayer
	videosDir string
	interval  time.Duration

	mu      sync.Mutex
	current *session
	loop    *syncLoop
}

// Options tunes the service; zero values take defaults.
type Options struct {
	VideosDir    string
	SyncInterval time.Duration
	Clock        func() time.Time
}

// NewService wires the session manager. mediaFS is the filesystem the local
// backend reads media files from.
func NewService(c *corpus.Service, overlay *notify.Overlay, toaster *notify.Toaster, mediaFS afero.Fs, opts Options) *Service {
	if opts.VideosDir == "" {
		opts.VideosDir = "videos"
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}
	return &Service{
		corpus:    c,
		overlay:   overlay,
		toaster:   toaster,
		remote:    NewRemotePlayer(opts.Clock),
		local:     NewLocalPlayer(mediaFS, opts.Clock),
		videosDir: opts.VideosDir,
		interval:  opts.SyncInterval,
	}
}

// Remote exposes the remote player controller for the runtime-ready signal.
func (s *Service) Remote() *RemotePlayer { return s.remote }

// Start opens a preview session for a video at the given "mm:ss" offset. Any
// active session is stopped first, so exactly one sync loop and one active
// backend exist after the call returns. A not-ready remote runtime rejects
// the request without creating a session; an unplayable local file leaves the
// session open in a degraded, no-video state.
func (s *Service) Start(videoID, startTimeLabel string) (models.SessionInfo, error) {
	video, err := s.corpus.ByID(videoID)
	if err != nil {
		return models.SessionInfo{}, fmt.Errorf("start preview: %w", err)
	}

	seconds, err := timecode.ToSeconds(startTimeLabel)
	if err != nil {
		return models.SessionInfo{}, fmt.Errorf("start preview: %w", err)
	}

	ref := ResolveBackend(video.URL, video.Thumbnail, s.videosDir, video.Year)

	s.mu.Lock()
	defer s.mu.Unlock()

	// New session always displaces the old one: pause, disarm, clear.
	s.stopLocked()

	var backend Backend
	switch ref.Kind {
	case models.BackendRemote:
		if err := s.remote.Cue(ref.RemoteID, seconds); err != nil {
			s.toaster.Notify(NoticePlayerLoading)
			return models.SessionInfo{}, err
		}
		backend = s.remote
	case models.BackendLocal:
		s.local.SetSource(ref.LocalPath)
		s.local.Seek(float64(seconds))
		if err := s.local.Play(); err != nil {
			log.Printf("[playback] local playback failed: %v", err)
			s.toaster.Notify(fmt.Sprintf(noticeLocalFailFmt, ref.LocalPath))
		}
		backend = s.local
	}

	info := models.SessionInfo{
		Fingerprint:  uuid.NewString(),
		VideoID:      video.ID,
		VideoYear:    video.Year,
		VideoTitle:   video.Title,
		Backend:      ref,
		StartTime:    startTimeLabel,
		EndTime:      endLabelAt(video, seconds),
		StartSeconds: seconds,
	}

	s.current = &session{info: info, backend: backend}
	s.armLocked(video.Subtitles, backend)

	log.Printf("[playback] session %s started video=%s backend=%s offset=%ds", info.Fingerprint, video.ID, ref.Kind, seconds)
	return info, nil
}

// Stop ends the active session: pauses the backend, disarms the sync loop and
// clears the overlay. Safe to call when nothing is active.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	s.disarmLocked()
	if s.current != nil {
		s.current.backend.Pause()
		log.Printf("[playback] session %s stopped", s.current.info.Fingerprint)
		s.current = nil
	}
	s.overlay.Clear()
}

// Current returns the active session descriptor, if any.
func (s *Service) Current() (models.SessionInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.SessionInfo{}, false
	}
	return s.current.info, true
}

// endLabelAt finds the end label of the subtitle interval covering the start
// offset, for the time-range caption. Empty when the offset sits in a gap.
func endLabelAt(video *models.Video, seconds int) string {
	for _, sub := range video.Subtitles {
		start, err := timecode.ToSeconds(sub.StartTime)
		if err != nil {
			continue
		}
		end, err := timecode.ToSeconds(sub.EndTime)
		if err != nil {
			continue
		}
		if seconds >= start && seconds <= end {
			return sub.EndTime
		}
	}
	return ""
}
