package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dazzlo/video-downloader/internal/extract"
	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/status"
)

// FFmpeg invocation constants.
const (
	FFmpegCommand = "ffmpeg"
	VersionFlag   = "-version"

	VideoCodec  = "libx264"
	VideoCRF    = "18"
	VideoPreset = "medium"
	AudioCopy   = "copy"

	CleanSuffix        = "_clean"
	FinalSuffix        = "_no_watermark"
	OutputExtensionMP4 = ".mp4"

	StderrLogLimit = 200
)

// Service applies watermark-removal filter graphs via the ffmpeg binary.
// The availability probe runs once and is cached for the process lifetime.
type Service struct {
	logger       *slog.Logger
	timeout      time.Duration
	minSizeRatio float64

	probeOnce sync.Once
	available bool
}

// NewService creates a watermark service. minSizeRatio is the fraction of
// the original size a cleaned file must exceed to be accepted.
func NewService(log *slog.Logger, timeout time.Duration, minSizeRatio float64) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:       log.With("component", "watermark"),
		timeout:      timeout,
		minSizeRatio: minSizeRatio,
	}
}

// Available reports whether the ffmpeg binary can be executed on this host.
func (s *Service) Available() bool {
	s.probeOnce.Do(func() {
		err := exec.Command(FFmpegCommand, VersionFlag).Run()
		s.available = err == nil
		if s.available {
			s.logger.Info("ffmpeg found, watermark removal enabled")
		} else {
			s.logger.Warn("ffmpeg not found, watermark removal disabled", "error", err)
		}
	})
	return s.available
}

// Apply runs the platform's filter graph over inputPath and returns the path
// of the result. On any failure (ffmpeg missing, non-zero exit, timeout,
// quality gate) the original path comes back and a warning is reported; the
// artifact describes the accepted cleaned file and is nil otherwise.
func (s *Service) Apply(ctx context.Context, inputPath string, platform model.Platform, rep status.Reporter) (string, *model.CleanedArtifact) {
	if !s.Available() {
		rep.Report("FFmpeg not available, returning video with watermark", true)
		return inputPath, nil
	}

	originalInfo, err := os.Stat(inputPath)
	if err != nil {
		rep.Report("Watermark removal failed, keeping original", true)
		s.logger.Error("stat input", "path", inputPath, "error", err)
		return inputPath, nil
	}

	cleanPath := cleanOutputPath(inputPath)
	rep.Report(fmt.Sprintf("Removing watermarks from: %s", filepath.Base(inputPath)), false)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := BuildFFmpegArgs(inputPath, Plan(platform), cleanPath)
	cmd := exec.CommandContext(runCtx, FFmpegCommand, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(cleanPath)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			rep.Report("Watermark removal timed out, keeping original", true)
			return inputPath, nil
		}
		rep.Report("Watermark removal failed, keeping original", true)
		s.logger.Error("ffmpeg failed",
			"path", inputPath,
			"stderr", extract.Truncate(stderr.String(), StderrLogLimit))
		return inputPath, nil
	}

	cleanInfo, err := os.Stat(cleanPath)
	if err != nil {
		rep.Report("Watermark removal failed, keeping original", true)
		return inputPath, nil
	}

	if !AcceptSize(originalInfo.Size(), cleanInfo.Size(), s.minSizeRatio) {
		os.Remove(cleanPath)
		rep.Report("Cleaned file too small, keeping original", true)
		return inputPath, nil
	}

	finalPath := finalOutputPath(inputPath, cleanPath)
	if finalPath != cleanPath {
		if err := os.Rename(cleanPath, finalPath); err != nil {
			finalPath = cleanPath
		}
	}

	rep.Report(fmt.Sprintf("Watermark removed: %s", filepath.Base(finalPath)), false)
	return finalPath, &model.CleanedArtifact{
		Path:         finalPath,
		OriginalSize: originalInfo.Size(),
		CleanedSize:  cleanInfo.Size(),
	}
}

// BuildFFmpegArgs builds the ffmpeg command arguments for one filter pass.
// Audio is copied untouched; only the video stream is re-encoded.
func BuildFFmpegArgs(inputPath, filterGraph, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-vf", filterGraph,
		"-c:v", VideoCodec,
		"-crf", VideoCRF,
		"-preset", VideoPreset,
		"-c:a", AudioCopy,
		"-y",
		outputPath,
	}
}

// AcceptSize is the corruption guard for a cleaned file: it must be strictly
// larger than ratio times the original.
func AcceptSize(originalSize, cleanedSize int64, ratio float64) bool {
	return float64(cleanedSize) > float64(originalSize)*ratio
}

// cleanOutputPath places the intermediate file next to the input.
func cleanOutputPath(inputPath string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), stem+CleanSuffix+OutputExtensionMP4)
}

// finalOutputPath derives the published name. Non-mp4 inputs keep the clean
// path since there is no suffix to rewrite.
func finalOutputPath(inputPath, cleanPath string) string {
	if !strings.HasSuffix(inputPath, OutputExtensionMP4) {
		return cleanPath
	}
	return strings.TrimSuffix(inputPath, OutputExtensionMP4) + FinalSuffix + OutputExtensionMP4
}
