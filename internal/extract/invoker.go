package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/lrstanley/go-ytdlp"

	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/status"
)

// Status message limits.
const (
	TitleDisplayLimit = 50
)

// Invoker drives the extraction engine for one request at a time. It owns no
// cross-request state; a single Invoker is safe for concurrent use.
type Invoker struct {
	logger *slog.Logger
}

// NewInvoker creates an invoker logging through log.
func NewInvoker(log *slog.Logger) *Invoker {
	if log == nil {
		log = slog.Default()
	}
	return &Invoker{logger: log.With(slog.String("component", "extract"))}
}

// probeInfo mirrors the fields of the engine's single-JSON metadata dump
// that the pipeline cares about.
type probeInfo struct {
	Type     string       `json:"_type"`
	Title    string       `json:"title"`
	Uploader string       `json:"uploader"`
	Duration float64      `json:"duration"`
	Entries  []*probeInfo `json:"entries"`
}

// Download runs the full extraction for req: URL validation, isolated cache
// allocation, metadata probe, playlist capping, and the download itself.
// Every failure path is classified and reported through rep; the method
// never panics and never returns an error.
func (inv *Invoker) Download(ctx context.Context, req Request, rep status.Reporter) model.DownloadOutcome {
	if !validURL(req.URL) {
		return inv.fail(rep, model.ErrorKindInvalidURL,
			"Invalid URL format. Please provide a valid URL starting with http:// or https://")
	}

	cacheDir, err := os.MkdirTemp("", "dazzlo-cache-*")
	if err != nil {
		kind, msg := ClassifyUnexpectedError(err)
		return inv.fail(rep, kind, msg)
	}
	// Cache cleanup is best-effort on every exit path.
	defer func() { _ = os.RemoveAll(cacheDir) }()

	rep.Report("Analyzing URL and extracting video info...", false)

	info, err := inv.probe(ctx, req, cacheDir)
	if err != nil {
		kind, msg := ClassifyExtractorError(err)
		return inv.fail(rep, kind, msg)
	}
	if info == nil {
		return inv.fail(rep, model.ErrorKindExtractionFailed,
			"Could not extract video information from this URL")
	}

	mediaInfo, capped := inv.reportProbe(info, req.PlaylistMax, rep)

	dl := inv.command(req, cacheDir).
		ForceOverwrites().
		RestrictFilenames().
		Output(req.OutputTemplatePath())
	if req.Subtitles {
		dl.WriteSubs()
	}
	if capped {
		dl.PlaylistEnd(req.PlaylistMax)
	}

	if _, err := dl.Run(ctx, req.URL); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return inv.fail(rep, model.ErrorKindTimeout, "Connection timeout. Try again later")
		}
		kind, msg := ClassifyDownloadError(err)
		return inv.fail(rep, kind, msg)
	}

	return model.DownloadOutcome{Success: true, Info: mediaInfo}
}

// probe extracts metadata without downloading and parses the JSON dump.
func (inv *Invoker) probe(ctx context.Context, req Request, cacheDir string) (*probeInfo, error) {
	res, err := inv.command(req, cacheDir).
		SkipDownload().
		DumpSingleJSON().
		Run(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Stdout == "" {
		return nil, nil
	}
	var info probeInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		inv.logger.Warn("probe output not parseable", slog.String("error", err.Error()))
		return nil, nil
	}
	return &info, nil
}

// command builds the engine invocation shared by probe and download.
func (inv *Invoker) command(req Request, cacheDir string) *ytdlp.Command {
	cmd := ytdlp.New().
		NoCheckCertificates().
		PreferFreeFormats().
		CacheDir(cacheDir).
		SocketTimeout(float64(req.SocketTimeoutSecs)).
		Retries(strconv.Itoa(req.Retries)).
		Format(req.Format)
	for key, value := range req.Headers {
		cmd.AddHeaders(key + ":" + value)
	}
	return cmd
}

// reportProbe emits the pre-download status line and decides whether the
// playlist cap applies. It returns the media info recorded in the outcome.
func (inv *Invoker) reportProbe(info *probeInfo, playlistMax int, rep status.Reporter) (*model.MediaInfo, bool) {
	valid := 0
	for _, e := range info.Entries {
		if e != nil {
			valid++
		}
	}
	if valid > 0 {
		rep.Report(fmt.Sprintf("Found %d videos to download...", valid), false)
		capped := valid > playlistMax
		if capped {
			rep.Report(fmt.Sprintf("Limiting to first %d videos of %d", playlistMax, valid), false)
		}
		return &model.MediaInfo{Title: info.Title, Uploader: info.Uploader, EntryCount: valid}, capped
	}

	title := info.Title
	if title == "" {
		title = "Unknown video"
	}
	msg := "Downloading: " + Truncate(title, TitleDisplayLimit)
	if info.Uploader != "" && info.Uploader != "Unknown" {
		msg += " by " + info.Uploader
	}
	if info.Duration > 0 {
		msg += " (" + formatDuration(info.Duration) + ")"
	}
	rep.Report(msg, false)
	return &model.MediaInfo{Title: info.Title, Uploader: info.Uploader, Duration: info.Duration}, false
}

// fail reports the classified failure and converts it into an outcome.
func (inv *Invoker) fail(rep status.Reporter, kind model.ErrorKind, msg string) model.DownloadOutcome {
	rep.Report(msg, true)
	inv.logger.Warn("download failed",
		slog.String("kind", kind.String()),
		slog.String("message", msg))
	return model.DownloadOutcome{Success: false, Kind: kind, Message: msg}
}

// validURL requires a parseable scheme and host.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// formatDuration renders seconds as minutes:seconds.
func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
