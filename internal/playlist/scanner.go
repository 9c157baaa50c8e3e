// Package playlist pre-scans YouTube playlist URLs so the status stream can
// announce what a playlist holds before extraction starts. The scan is an
// enrichment step only; extraction does not depend on it.
package playlist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

const (
	DefaultScanTimeout = 60 * time.Second

	PlaylistParam  = "list="
	ParamSeparator = "&"

	VideoURLTemplate = "https://www.youtube.com/watch?v=%s"

	DefaultPlaylistName = "Unknown Playlist"
	MinPrefixLength     = 10
	PlaylistSuffix      = " Playlist"
)

// Entry is a single playlist item.
type Entry struct {
	VideoID string
	Title   string
	URL     string
}

// Preview describes a scanned playlist.
type Preview struct {
	ID      string
	Title   string
	Entries []Entry
}

// Summary returns a one-line description for the status stream.
func (p *Preview) Summary() string {
	return fmt.Sprintf("%s (%d videos)", p.Title, len(p.Entries))
}

// Scanner fetches playlist contents through the ytdlp library.
type Scanner struct {
	timeout time.Duration
}

// NewScanner creates a scanner with the default timeout.
func NewScanner() *Scanner {
	return &Scanner{timeout: DefaultScanTimeout}
}

// SetTimeout overrides the scan timeout.
func (s *Scanner) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// IsPlaylistURL reports whether the URL carries a playlist parameter.
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam)
}

// ExtractID pulls the playlist ID out of the URL, or returns "".
func ExtractID(url string) string {
	if !strings.Contains(url, PlaylistParam) {
		return ""
	}
	parts := strings.Split(url, PlaylistParam)
	if len(parts) < 2 {
		return ""
	}
	id := parts[1]
	if strings.Contains(id, ParamSeparator) {
		id = strings.Split(id, ParamSeparator)[0]
	}
	return id
}

// Scan fetches all items of the playlist referenced by url.
func (s *Scanner) Scan(ctx context.Context, url string) (*Preview, error) {
	playlistID := ExtractID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %v", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{
			VideoID: it.VideoID,
			Title:   it.Title,
			URL:     fmt.Sprintf(VideoURLTemplate, it.VideoID),
		})
	}

	return &Preview{
		ID:      playlistID,
		Title:   deriveTitle(entries),
		Entries: entries,
	}, nil
}

// deriveTitle guesses a playlist name from its items. Playlist metadata is
// not available from the items endpoint, so the shared title prefix of the
// first two entries stands in for it.
func deriveTitle(entries []Entry) string {
	if len(entries) == 0 {
		return DefaultPlaylistName
	}
	if len(entries) > 1 {
		prefix := commonPrefix(entries[0].Title, entries[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return entries[0].Title + PlaylistSuffix
}

func commonPrefix(s1, s2 string) string {
	n := min(len(s1), len(s2))
	for i := 0; i < n; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:n]
}
