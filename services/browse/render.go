package browse

import (
	"html"

	"github.com/yeppakhon/WWDC-search/models"
)

// Render maps match records to display cards. Records are rendered
// independently and order is preserved exactly as received; no re-sorting.
// Highlighting is delegated to the engine and applied identically to the
// primary and the translated field when the latter is present.
func (s *Service) Render(results []models.MatchRecord, queryText string) []models.ResultCard {
	cards := make([]models.ResultCard, 0, len(results))
	for _, r := range results {
		card := models.ResultCard{
			ID:              r.ID,
			VideoYear:       r.VideoYear,
			VideoTitle:      html.EscapeString(r.VideoTitle),
			VideoSession:    html.EscapeString(r.VideoSession),
			VideoThumbnail:  r.VideoThumbnail,
			VideoURL:        r.VideoURL,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			RawText:         r.Text,
			HighlightedText: s.engine.HighlightText(r.Text, queryText),
		}
		if r.TextCN != "" {
			card.HighlightedCN = s.engine.HighlightText(r.TextCN, queryText)
		}
		cards = append(cards, card)
	}
	return cards
}
