package models

// MatchRecord is the projection the search engine produces for one matching
// subtitle interval. Transient: rebuilt on every search, never persisted.
type MatchRecord struct {
	ID             string `json:"id"`
	VideoYear      int    `json:"videoYear"`
	VideoTitle     string `json:"videoTitle"`
	VideoSession   string `json:"videoSession"`
	VideoThumbnail string `json:"videoThumbnail,omitempty"`
	VideoURL       string `json:"videoUrl,omitempty"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Text           string `json:"text"`
	TextCN         string `json:"textCn,omitempty"`
}

// SearchRequest combines the free-text query with the optional year filter.
// At least one of the two must be present for a search to execute; an empty
// query with no year is rejected before the engine is invoked.
type SearchRequest struct {
	QueryText string `json:"queryText"`
	Year      *int   `json:"year,omitempty"`
}

// SearchOutcome is the render model a search produces: the ordered result set,
// the stats line describing it, and, when the request was rejected, the prompt
// the user should see instead.
type SearchOutcome struct {
	Results []MatchRecord `json:"results"`
	Stats   string        `json:"stats"`
	Prompt  string        `json:"prompt,omitempty"`
}

// ResultCard is the deterministic display projection of one MatchRecord.
// Highlighted fields carry markup; everything else is escaped plain text. The
// identifier fields are not shown but are required to wire preview, translate
// and copy actions back to the exact originating record, including when two
// cards share identical display text.
type ResultCard struct {
	ID              string `json:"id"`
	VideoYear       int    `json:"videoYear"`
	VideoTitle      string `json:"videoTitle"`
	VideoSession    string `json:"videoSession"`
	VideoThumbnail  string `json:"videoThumbnail,omitempty"`
	VideoURL        string `json:"videoUrl,omitempty"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	RawText         string `json:"rawText"`
	HighlightedText string `json:"highlightedText"`
	HighlightedCN   string `json:"highlightedTextCn,omitempty"`
}
