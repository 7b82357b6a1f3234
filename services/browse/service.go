// Package browse orchestrates the search flow: it validates and combines the
// free-text query with the year filter, delegates to the search engine,
// records search intent into the history, and shapes the outcome for
// rendering.
package browse

import (
	"fmt"
	"log"
	"strings"

	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/search"
)

// PromptEnterKeyword is shown instead of searching when both the query and
// the year filter are empty.
const PromptEnterKeyword = "请输入搜索关键词 ✏️"

// HistoryRecorder receives every non-empty submitted query.
type HistoryRecorder interface {
	Add(query string)
}

// Service is the search orchestrator.
type Service struct {
	engine  *search.Engine
	history HistoryRecorder
}

func NewService(engine *search.Engine, history HistoryRecorder) *Service {
	return &Service{engine: engine, history: history}
}

// Search runs one combined query. An empty query with no year filter performs
// no engine call and returns a prompt-only outcome. A non-empty query is
// recorded into the history unconditionally, even when the result set comes
// back empty: history reflects search intent, not search success.
func (s *Service) Search(req models.SearchRequest) *models.SearchOutcome {
	query := strings.TrimSpace(req.QueryText)

	if query == "" && req.Year == nil {
		return &models.SearchOutcome{Prompt: PromptEnterKeyword}
	}

	if query != "" {
		s.history.Add(query)
	}

	results := s.engine.Search(query, search.SearchOptions{Year: req.Year})
	log.Printf("[browse] search query=%q year=%s results=%d", query, yearString(req.Year), len(results))

	return &models.SearchOutcome{
		Results: results,
		Stats:   statsLine(results, query, req.Year),
	}
}

// Stats returns the idle corpus summary shown before any search.
func (s *Service) Stats() string {
	return fmt.Sprintf("📚 共收录 %d 个视频，%d 条字幕片段", s.engine.VideoCount(), s.engine.SubtitleCount())
}

// AvailableYears exposes the engine's year index for the filter dropdown.
func (s *Service) AvailableYears() []int { return s.engine.AvailableYears() }

// statsLine is fully determined by the result count: a summary including the
// year when filtered, or the no-results message. The two are mutually
// exclusive.
func statsLine(results []models.MatchRecord, query string, year *int) string {
	if len(results) == 0 {
		return fmt.Sprintf("没有找到 %q 的相关结果", query)
	}

	queryText := "全集"
	if query != "" {
		queryText = fmt.Sprintf("关于 %q 的", query)
	}
	yearText := ""
	if year != nil {
		yearText = fmt.Sprintf("WWDC %d ", *year)
	}
	return fmt.Sprintf("找到 %d 条 %s%s结果", len(results), yearText, queryText)
}

func yearString(year *int) string {
	if year == nil {
		return "all"
	}
	return fmt.Sprintf("%d", *year)
}
