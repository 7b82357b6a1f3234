package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/yeppakhon/WWDC-search/models"
	"github.com/yeppakhon/WWDC-search/services/browse"
)

type browseService interface {
	Search(req models.SearchRequest) *models.SearchOutcome
	Render(results []models.MatchRecord, queryText string) []models.ResultCard
	Stats() string
	AvailableYears() []int
}

var _ browseService = (*browse.Service)(nil)

// SearchHandler answers search, stats and year-filter requests.
type SearchHandler struct {
	Service browseService
}

func NewSearchHandler(service browseService) *SearchHandler {
	return &SearchHandler{Service: service}
}

type searchResponse struct {
	Stats  string              `json:"stats"`
	Prompt string              `json:"prompt,omitempty"`
	Cards  []models.ResultCard `json:"cards"`
}

// Search runs the combined query. `q` may be empty when `year` is set;
// both empty yields the prompt response with no engine call.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var year *int
	if yearStr := strings.TrimSpace(r.URL.Query().Get("year")); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "year must be an integer", http.StatusBadRequest)
			return
		}
		year = &y
	}

	outcome := h.Service.Search(models.SearchRequest{QueryText: q, Year: year})

	resp := searchResponse{
		Stats:  outcome.Stats,
		Prompt: outcome.Prompt,
		Cards:  h.Service.Render(outcome.Results, strings.TrimSpace(q)),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Stats returns the idle corpus summary line.
func (h *SearchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"stats": h.Service.Stats()})
}

// Years returns the sorted list of filterable years.
func (h *SearchHandler) Years(w http.ResponseWriter, r *http.Request) {
	years := h.Service.AvailableYears()
	if years == nil {
		years = []int{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(years)
}

func (h *SearchHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
