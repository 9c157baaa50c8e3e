package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dazzlo/video-downloader/internal/config"
	"github.com/dazzlo/video-downloader/internal/extract"
	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/playlist"
	"github.com/dazzlo/video-downloader/internal/resolve"
	"github.com/dazzlo/video-downloader/internal/status"
	"github.com/dazzlo/video-downloader/internal/watermark"
)

const RequestIDPrefix = "req-"

// Result is what the caller of Submit gets back. Filename and Path are set
// only when a single video artifact was produced.
type Result struct {
	Success  bool
	Message  string
	Kind     model.ErrorKind
	Filename string
	Path     string
	Size     int64
}

// Service runs the retrieval pipeline. One goroutine per submitted request;
// the only cross-request shared state is the downloads directory.
type Service struct {
	logger *slog.Logger

	extractor Extractor
	filter    Filter
	resolver  Resolver
	scanner   PlaylistScanner

	downloadDir    string
	requestTimeout time.Duration

	socketTimeoutSecs int
	retries           int
	playlistMax       int
}

// NewService wires the pipeline from configuration.
func NewService(cfg config.Config, downloadDir string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:    log.With("component", "download"),
		extractor: extract.NewInvoker(log),
		filter:    watermark.NewService(log, cfg.Filter.ProcessTimeout(), cfg.Filter.SizeRatio),
		resolver:  resolve.NewResolver(cfg.Resolve.RecencyWindow(), cfg.Resolve.MinFileSizeBytes),
		scanner:   playlist.NewScanner(),

		downloadDir:    downloadDir,
		requestTimeout: cfg.Download.RequestTimeout(),

		socketTimeoutSecs: cfg.Download.SocketTimeoutSecs,
		retries:           cfg.Download.Retries,
		playlistMax:       cfg.Download.PlaylistMaxEntries,
	}
}

// DownloadDir returns the shared directory final artifacts are published to.
func (s *Service) DownloadDir() string {
	return s.downloadDir
}

// Submit runs one request and blocks until it finishes or the request
// deadline passes. On deadline the worker keeps running in the background
// and its eventual result is discarded; killing yt-dlp mid-write would
// leave partial files behind.
func (s *Service) Submit(ctx context.Context, url string, removeWatermark bool, rep status.Reporter) Result {
	requestID := newRequestID()
	results := make(chan Result, 1)

	workerCtx := context.WithoutCancel(ctx)
	go func() {
		results <- s.run(workerCtx, requestID, url, removeWatermark, rep)
	}()

	select {
	case res := <-results:
		return res
	case <-time.After(s.requestTimeout):
		msg := fmt.Sprintf("Download timed out after %d seconds. Please try again.", int(s.requestTimeout.Seconds()))
		s.logger.Warn("request deadline passed", "request_id", requestID, "url", url)
		rep.Report(msg, true)
		return Result{Success: false, Kind: model.ErrorKindTimeout, Message: msg}
	case <-ctx.Done():
		msg := "Download cancelled"
		rep.Report(msg, true)
		return Result{Success: false, Kind: model.ErrorKindTimeout, Message: msg}
	}
}

// run executes the pipeline for one request.
func (s *Service) run(ctx context.Context, requestID, url string, removeWatermark bool, rep status.Reporter) Result {
	p := model.ClassifyPlatform(url)
	s.logger.Info("request started", "request_id", requestID, "platform", p, "remove_watermark", removeWatermark)

	// Request-scoped output directory keyed by the request ID. The shared
	// directory is used directly only when the subdirectory cannot be made.
	requestDir := filepath.Join(s.downloadDir, requestID)
	if err := os.MkdirAll(requestDir, 0o755); err != nil {
		s.logger.Warn("falling back to shared downloads dir", "error", err)
		requestDir = s.downloadDir
	}

	if p == model.PlatformYouTube && playlist.IsPlaylistURL(url) && s.scanner != nil {
		if preview, err := s.scanner.Scan(ctx, url); err == nil {
			rep.Report(fmt.Sprintf("Playlist detected: %s", preview.Summary()), false)
		}
	}

	req := extract.BuildRequest(url, p, requestDir, s.socketTimeoutSecs, s.retries, s.playlistMax)
	outcome := s.extractor.Download(ctx, req, rep)
	if !outcome.Success {
		s.cleanupRequestDir(requestDir)
		return Result{Success: false, Kind: outcome.Kind, Message: outcome.Message}
	}

	candidate, verified := s.resolver.Verify(requestDir, outcome.Info, rep)
	if !verified.Success && requestDir != s.downloadDir {
		// Some extractors ignore the output template's directory part.
		candidate, verified = s.resolver.Verify(s.downloadDir, outcome.Info, status.Nop{})
	}
	if !verified.Success {
		s.cleanupRequestDir(requestDir)
		return Result{Success: false, Kind: verified.Kind, Message: verified.Message}
	}

	if candidate == nil {
		// Eligible non-video output. Publish everything as-is.
		s.publishAll(requestDir)
		return Result{Success: true, Message: verified.Message}
	}

	finalPath := candidate.Path
	if removeWatermark {
		finalPath, _ = s.filter.Apply(ctx, finalPath, p, rep)
	}

	published, err := s.publish(finalPath)
	if err != nil {
		s.logger.Error("publish failed", "request_id", requestID, "error", err)
		published = finalPath
	}
	s.cleanupRequestDir(requestDir)

	info, err := os.Stat(published)
	if err != nil {
		msg := "Downloaded file disappeared before it could be served"
		rep.Report(msg, true)
		return Result{Success: false, Kind: model.ErrorKindNoFilesProduced, Message: msg}
	}

	s.logger.Info("request finished", "request_id", requestID, "file", filepath.Base(published), "size", info.Size())
	return Result{
		Success:  true,
		Message:  verified.Message,
		Filename: filepath.Base(published),
		Path:     published,
		Size:     info.Size(),
	}
}

// publish moves one artifact into the shared downloads directory, renaming
// on collision so an earlier download is never overwritten.
func (s *Service) publish(path string) (string, error) {
	if filepath.Dir(path) == s.downloadDir {
		return path, nil
	}
	dest := filepath.Join(s.downloadDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		stem := strings.TrimSuffix(filepath.Base(dest), ext)
		dest = filepath.Join(s.downloadDir, fmt.Sprintf("%s_%d%s", stem, time.Now().Unix(), ext))
	}
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// publishAll moves every remaining file of a request directory into the
// shared directory. Used for subtitle-only and similar non-video output.
func (s *Service) publishAll(requestDir string) {
	if requestDir == s.downloadDir {
		return
	}
	entries, err := os.ReadDir(requestDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := s.publish(filepath.Join(requestDir, entry.Name())); err != nil {
			s.logger.Warn("publish failed", "file", entry.Name(), "error", err)
		}
	}
	s.cleanupRequestDir(requestDir)
}

// cleanupRequestDir removes a request's scratch directory and whatever is
// left inside it. Best effort.
func (s *Service) cleanupRequestDir(requestDir string) {
	if requestDir == s.downloadDir {
		return
	}
	if err := os.RemoveAll(requestDir); err != nil {
		s.logger.Warn("request dir cleanup failed", "dir", requestDir, "error", err)
	}
}

// newRequestID generates a time-ordered request identifier.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RequestIDPrefix+"%d", time.Now().UnixNano())
	}
	return RequestIDPrefix + id.String()
}
