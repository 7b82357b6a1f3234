// Package search implements the subtitle search engine boundary: free-text
// matching over the corpus with an optional year filter, plus the highlighting
// helper the result renderer delegates to.
package search

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sourcegraph/conc/iter"

	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/corpus"
)

// Engine answers search requests against the static corpus. Ranking is plain
// corpus order: videos in file order, subtitles in track order.
type Engine struct {
	corpus *corpus.Service
}

// SearchOptions narrows a query. A nil Year means all years.
type SearchOptions struct {
	Year *int
}

func NewEngine(c *corpus.Service) *Engine {
	return &Engine{corpus: c}
}

// Search scans the corpus for subtitle intervals whose primary or translated
// text contains queryText (case-insensitive). An empty queryText lists every
// interval of the filtered set, which callers only request together with a
// year filter. Per-video scans run concurrently; result order is
// deterministic regardless.
func (e *Engine) Search(queryText string, opts SearchOptions) []models.MatchRecord {
	needle := strings.ToLower(strings.TrimSpace(queryText))

	videos := e.candidateVideos(opts)
	perVideo := iter.Map(videos, func(v **models.Video) []models.MatchRecord {
		return scanVideo(*v, needle)
	})

	var results []models.MatchRecord
	for _, matches := range perVideo {
		results = append(results, matches...)
	}
	return results
}

func (e *Engine) candidateVideos(opts SearchOptions) []*models.Video {
	if opts.Year != nil {
		return e.corpus.ByYear(*opts.Year)
	}
	all := e.corpus.All()
	videos := make([]*models.Video, len(all))
	for i := range all {
		videos[i] = &all[i]
	}
	return videos
}

func scanVideo(v *models.Video, needle string) []models.MatchRecord {
	var matches []models.MatchRecord
	for i, sub := range v.Subtitles {
		if needle != "" &&
			!strings.Contains(strings.ToLower(sub.Text), needle) &&
			!strings.Contains(strings.ToLower(sub.TextCN), needle) {
			continue
		}
		matches = append(matches, models.MatchRecord{
			ID:             fmt.Sprintf("%s-%d", v.ID, i),
			VideoYear:      v.Year,
			VideoTitle:     v.Title,
			VideoSession:   v.Session,
			VideoThumbnail: v.Thumbnail,
			VideoURL:       v.URL,
			StartTime:      sub.StartTime,
			EndTime:        sub.EndTime,
			Text:           sub.Text,
			TextCN:         sub.TextCN,
		})
	}
	return matches
}

// HighlightText escapes text and wraps case-insensitive occurrences of
// queryText in <mark> tags. The same function serves both the primary and the
// translated field so highlighting stays consistent between them.
//
// Lowercasing can change a rune's byte length, so matching happens in a
// lowered copy with a byte offset map back into the original string; slicing
// the original with lowered indices would misalign the markup.
func (e *Engine) HighlightText(text, queryText string) string {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return html.EscapeString(text)
	}

	lowerQuery := strings.ToLower(queryText)

	var lower []byte
	offsets := make([]int, 0, len(text)+1)
	buf := make([]byte, utf8.UTFMax)
	for i, r := range text {
		n := utf8.EncodeRune(buf, unicode.ToLower(r))
		for j := 0; j < n; j++ {
			offsets = append(offsets, i)
		}
		lower = append(lower, buf[:n]...)
	}
	offsets = append(offsets, len(text))

	var b strings.Builder
	pos := 0
	orig := 0
	for {
		idx := bytes.Index(lower[pos:], []byte(lowerQuery))
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(lowerQuery)
		origStart := offsets[start]
		origEnd := offsets[end]
		b.WriteString(html.EscapeString(text[orig:origStart]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[origStart:origEnd]))
		b.WriteString("</mark>")
		pos = end
		orig = origEnd
	}
	b.WriteString(html.EscapeString(text[orig:]))
	return b.String()
}

// AvailableYears exposes the corpus year index for the filter dropdown.
func (e *Engine) AvailableYears() []int { return e.corpus.AvailableYears() }

func (e *Engine) VideoCount() int    { return e.corpus.VideoCount() }
func (e *Engine) SubtitleCount() int { return e.corpus.SubtitleCount() }
