package model

import "time"

// MediaInfo carries the metadata extracted during the pre-download probe.
// Playlists report EntryCount > 0; single items leave it at zero.
type MediaInfo struct {
	Title      string
	Uploader   string
	Duration   float64 // seconds, 0 when unknown
	EntryCount int
}

// DownloadOutcome is the immutable result of one download attempt.
type DownloadOutcome struct {
	Success bool
	Kind    ErrorKind
	Message string
	Info    *MediaInfo
}

// CandidateFile describes one file observed while scanning the output
// directory. Derived at a point in time and never stored.
type CandidateFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// IsVideo reports whether the candidate carries a video extension.
func (c CandidateFile) IsVideo() bool {
	return IsVideoFile(c.Name)
}

// CleanedArtifact is the result of a successful watermark-removal pass.
type CleanedArtifact struct {
	Path         string
	OriginalSize int64
	CleanedSize  int64
}
