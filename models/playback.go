package models

// BackendKind discriminates the two playback mechanisms.
type BackendKind string

const (
	BackendRemote BackendKind = "remote"
	BackendLocal  BackendKind = "local"
)

// BackendRef is the tagged variant a session resolves once at start time:
// either a remote player identifier or a local media path. Exactly one of
// RemoteID / LocalPath is set, matching Kind.
type BackendRef struct {
	Kind      BackendKind `json:"kind"`
	RemoteID  string      `json:"remoteId,omitempty"`
	LocalPath string      `json:"localPath,omitempty"`
}

// SessionInfo describes the currently active playback session. Fingerprint is
// the (video, backend) identity minted when the session starts.
type SessionInfo struct {
	Fingerprint  string      `json:"fingerprint"`
	VideoID      string      `json:"videoId"`
	VideoYear    int         `json:"videoYear"`
	VideoTitle   string      `json:"videoTitle"`
	Backend      BackendRef  `json:"backend"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime,omitempty"`
	StartSeconds int         `json:"startSeconds"`
}

// OverlaySnapshot is the poll response for the subtitle overlay region.
// Hidden overlays keep their last content so reappearing is cheap.
type OverlaySnapshot struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
	TextCN  string `json:"textCn,omitempty"`
}
