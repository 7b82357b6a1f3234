package playback

import (
	"fmt"
	"path"
	"regexp"

	"github.com/yeppakhon/WWDC-search/models"
)

// remoteIDPattern extracts the 11-character remote player identifier from the
// URL shapes the corpus carries: youtu.be short links, youtube.com embed/v/
// watch URLs, and the img.youtube.com thumbnail host.
var remoteIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:embed/|v/|watch\?v=|watch\?.+&v=)|img\.youtube\.com/vi/)([^&?/]{11})`)

// ExtractRemoteID pulls a remote player identifier out of a URL.
func ExtractRemoteID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	m := remoteIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ResolveBackend decides once, at session start, which backend plays a
// record: remote when an identifier resolves from the source URL or, failing
// that, from the video's own thumbnail URL; otherwise local, with the media
// path derived from the video's year by convention. The local arm is total,
// so every record resolves to a playable variant.
func ResolveBackend(sourceURL, thumbnailURL, videosDir string, year int) models.BackendRef {
	if id, ok := ExtractRemoteID(sourceURL); ok {
		return models.BackendRef{Kind: models.BackendRemote, RemoteID: id}
	}
	if id, ok := ExtractRemoteID(thumbnailURL); ok {
		return models.BackendRef{Kind: models.BackendRemote, RemoteID: id}
	}
	return models.BackendRef{
		Kind:      models.BackendLocal,
		LocalPath: path.Join(videosDir, fmt.Sprintf("%d.mp4", year)),
	}
}
