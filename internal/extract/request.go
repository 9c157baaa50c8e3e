package extract

import (
	"path/filepath"

	"github.com/dazzlo/video-downloader/internal/model"
)

// Format selector strings passed to the extraction engine.
const (
	FormatBest1080 = "best[height<=1080]/best"
	FormatBest720  = "best[height<=720]/best"
	FormatBest     = "best"
)

// Browser header values. The desktop set is the baseline; platforms that
// gate content behind mobile clients get the mobile set instead.
const (
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	MobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15"
	AcceptHeader     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// OutputTemplate is the yt-dlp output template appended to the request's
// output directory.
const OutputTemplate = "%(title)s.%(ext)s"

// Request is the full configuration for one extraction attempt. Built fresh
// per attempt, never persisted.
type Request struct {
	URL       string
	Platform  model.Platform
	OutputDir string
	Format    string
	Headers   map[string]string
	Subtitles bool

	SocketTimeoutSecs int
	Retries           int
	PlaylistMax       int
}

// OutputTemplatePath returns the output template rooted at the request's
// output directory.
func (r Request) OutputTemplatePath() string {
	return filepath.Join(r.OutputDir, OutputTemplate)
}

// override holds the per-platform deviations from the baseline request.
// Only non-zero fields are applied, so the compiler bounds what a platform
// may change.
type override struct {
	format        string
	mobileHeaders bool
	subtitles     bool
}

var platformOverrides = map[model.Platform]override{
	model.PlatformInstagram: {format: FormatBest1080, mobileHeaders: true},
	model.PlatformTikTok:    {format: FormatBest1080, mobileHeaders: true},
	model.PlatformFacebook:  {format: FormatBest720},
	model.PlatformTwitter:   {format: FormatBest720},
	model.PlatformYouTube:   {format: FormatBest1080, subtitles: true},
	model.PlatformSnapchat:  {format: FormatBest, mobileHeaders: true},
}

// BuildRequest merges the generic baseline with the platform's override.
// Overrides always win over baseline fields.
func BuildRequest(url string, platform model.Platform, outputDir string, socketTimeoutSecs, retries, playlistMax int) Request {
	req := Request{
		URL:       url,
		Platform:  platform,
		OutputDir: outputDir,
		Format:    FormatBest1080,
		Headers:   desktopHeaders(),
		Subtitles: false,

		SocketTimeoutSecs: socketTimeoutSecs,
		Retries:           retries,
		PlaylistMax:       playlistMax,
	}

	ov, ok := platformOverrides[platform]
	if !ok {
		return req
	}
	if ov.format != "" {
		req.Format = ov.format
	}
	if ov.mobileHeaders {
		req.Headers["User-Agent"] = MobileUserAgent
		req.Headers["Accept"] = AcceptHeader
	}
	if ov.subtitles {
		req.Subtitles = true
	}
	return req
}

// desktopHeaders returns a realistic desktop browser header set.
func desktopHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                DesktopUserAgent,
		"Accept":                    AcceptHeader,
		"Accept-Language":           "en-us,en;q=0.5",
		"Accept-Encoding":           "gzip, deflate",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}
