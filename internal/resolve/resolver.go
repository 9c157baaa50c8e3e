// Package resolve locates the artifact a download attempt produced by
// scanning the output directory. The recency window and minimum size are the
// only signals available: the extraction engine's reported path is not
// trusted across the process boundary.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/status"
)

// Display constants for the post-download status line.
const (
	TitleDisplayLimit = 40
	BytesPerMegabyte  = 1024 * 1024
)

// Resolver scans a single directory level for files produced by a download
// attempt. Scan errors are swallowed: resolution is best-effort by design.
type Resolver struct {
	recencyWindow time.Duration
	minFileSize   int64
}

// NewResolver creates a resolver with the given eligibility heuristics.
func NewResolver(recencyWindow time.Duration, minFileSize int64) *Resolver {
	return &Resolver{recencyWindow: recencyWindow, minFileSize: minFileSize}
}

// Scan returns every eligible candidate in dir at this moment. A file is
// eligible when it is a regular file, strictly larger than the minimum size,
// and modified within the recency window.
func (r *Resolver) Scan(dir string) []model.CandidateFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	now := time.Now()
	var candidates []model.CandidateFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() <= r.minFileSize {
			continue
		}
		if now.Sub(info.ModTime()) >= r.recencyWindow {
			continue
		}
		candidates = append(candidates, model.CandidateFile{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return candidates
}

// Latest returns the most recently modified eligible video file in dir, or
// nil when no video candidate exists.
func (r *Resolver) Latest(dir string) *model.CandidateFile {
	return latestVideo(r.Scan(dir))
}

// Verify inspects dir right after a download attempt and decides the
// attempt's fate: a video candidate is a full success, eligible non-video
// files still count as a success without a single artifact, and an empty
// scan is a failure.
func (r *Resolver) Verify(dir string, info *model.MediaInfo, rep status.Reporter) (*model.CandidateFile, model.DownloadOutcome) {
	candidates := r.Scan(dir)
	if len(candidates) == 0 {
		msg := "No files were downloaded. The URL might be invalid or the content may be private."
		rep.Report(msg, true)
		return nil, model.DownloadOutcome{Success: false, Kind: model.ErrorKindNoFilesProduced, Message: msg}
	}

	if video := latestVideo(candidates); video != nil {
		title := "Video"
		if info != nil && info.Title != "" {
			title = info.Title
		}
		title = truncate(title, TitleDisplayLimit)
		msg := fmt.Sprintf("Downloaded: %s (%.1fMB)", title, float64(video.Size)/BytesPerMegabyte)
		rep.Report(msg, false)
		return video, model.DownloadOutcome{Success: true, Message: msg, Info: info}
	}

	msg := fmt.Sprintf("Downloaded %d file(s)", len(candidates))
	rep.Report(msg, false)
	return nil, model.DownloadOutcome{Success: true, Message: msg, Info: info}
}

// latestVideo picks the maximum-mtime video candidate.
func latestVideo(candidates []model.CandidateFile) *model.CandidateFile {
	var best *model.CandidateFile
	for i := range candidates {
		c := &candidates[i]
		if !c.IsVideo() {
			continue
		}
		if best == nil || c.ModTime.After(best.ModTime) {
			best = c
		}
	}
	return best
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
