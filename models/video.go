package models

// Subtitle is one time-bounded caption interval of a video. Time fields use the
// corpus "mm:ss" form; within a video the sequence is sorted by StartTime and
// intervals do not overlap.
type Subtitle struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Text      string `json:"text"`
	TextCN    string `json:"textCn,omitempty"`
}

// Video is one conference session with its subtitle track. The corpus is
// immutable for the lifetime of the process; videos are identified by ID and
// separately indexable by year.
type Video struct {
	ID        string     `json:"id"`
	Year      int        `json:"year"`
	Title     string     `json:"title"`
	Session   string     `json:"session"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	URL       string     `json:"url,omitempty"`
	Subtitles []Subtitle `json:"subtitles"`
}
