// Package corpus serves the static, pre-loaded video list. The corpus is read
// once at startup and never mutated; a subtitle ordering violation in the data
// is rejected at load time rather than handled downstream.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/yeppakhon/WWDC-search/internal/timecode"
	"github.com/yeppakhon/WWDC-search/models"
)

var (
	ErrPathRequired = errors.New("corpus path not provided")
	ErrNotFound     = errors.New("video not found")
)

// Service is the read-only video corpus.
type Service struct {
	videos        []models.Video
	byID          map[string]*models.Video
	byYear        map[int][]*models.Video
	subtitleCount int
}

// NewService loads and validates the corpus file.
func NewService(fs afero.Fs, path string) (*Service, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrPathRequired
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var videos []models.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	svc := &Service{
		videos: videos,
		byID:   make(map[string]*models.Video, len(videos)),
		byYear: make(map[int][]*models.Video),
	}

	for i := range svc.videos {
		v := &svc.videos[i]
		if strings.TrimSpace(v.ID) == "" {
			return nil, fmt.Errorf("corpus video %d: missing id", i)
		}
		if _, dup := svc.byID[v.ID]; dup {
			return nil, fmt.Errorf("corpus video %q: duplicate id", v.ID)
		}
		if err := validateSubtitles(v); err != nil {
			return nil, fmt.Errorf("corpus video %q: %w", v.ID, err)
		}
		svc.byID[v.ID] = v
		svc.byYear[v.Year] = append(svc.byYear[v.Year], v)
		svc.subtitleCount += len(v.Subtitles)
	}

	return svc, nil
}

// All returns the corpus in file order.
func (s *Service) All() []models.Video {
	return s.videos
}

// ByID looks a video up by its unique identifier.
func (s *Service) ByID(id string) (*models.Video, error) {
	v, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// ByYear returns the videos for one year, corpus order preserved.
func (s *Service) ByYear(year int) []*models.Video {
	return s.byYear[year]
}

func (s *Service) VideoCount() int    { return len(s.videos) }
func (s *Service) SubtitleCount() int { return s.subtitleCount }

// AvailableYears returns the distinct years present, sorted ascending.
func (s *Service) AvailableYears() []int {
	years := make([]int, 0, len(s.byYear))
	for year := range s.byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// validateSubtitles checks label syntax, start<=end, ascending order and
// non-overlap for one video's track.
func validateSubtitles(v *models.Video) error {
	prevEnd := -1
	for i, sub := range v.Subtitles {
		start, err := timecode.ToSeconds(sub.StartTime)
		if err != nil {
			return fmt.Errorf("subtitle %d: %w", i, err)
		}
		end, err := timecode.ToSeconds(sub.EndTime)
		if err != nil {
			return fmt.Errorf("subtitle %d: %w", i, err)
		}
		if end < start {
			return fmt.Errorf("subtitle %d: end %s before start %s", i, sub.EndTime, sub.StartTime)
		}
		if start <= prevEnd {
			return fmt.Errorf("subtitle %d: overlaps previous interval", i)
		}
		prevEnd = end
	}
	return nil
}
