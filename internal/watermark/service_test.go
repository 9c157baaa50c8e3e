package watermark

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/status"
)

// newServiceForTest pre-seeds the cached availability probe so tests do not
// depend on ffmpeg being installed.
func newServiceForTest(available bool) *Service {
	s := NewService(nil, 300*time.Second, 0.30)
	s.probeOnce.Do(func() { s.available = available })
	return s
}

func TestBuildFFmpegArgs(t *testing.T) {
	args := BuildFFmpegArgs("/in/a.mp4", "crop=iw-40:ih-40:20:20", "/in/a_clean.mp4")

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i /in/a.mp4",
		"-vf crop=iw-40:ih-40:20:20",
		"-c:v libx264",
		"-crf 18",
		"-preset medium",
		"-c:a copy",
		"-y",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args = %q, missing %q", joined, want)
		}
	}
	if args[len(args)-1] != "/in/a_clean.mp4" {
		t.Errorf("output path must be the final argument, got %q", args[len(args)-1])
	}
}

func TestAcceptSize(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		cleaned  int64
		want     bool
	}{
		{"29 percent rejected", 1000, 290, false},
		{"exactly 30 percent rejected", 1000, 300, false},
		{"31 percent accepted", 1000, 310, true},
		{"larger than original accepted", 1000, 1200, true},
		{"empty output rejected", 1000, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AcceptSize(tt.original, tt.cleaned, 0.30); got != tt.want {
				t.Errorf("AcceptSize(%d, %d, 0.30) = %v, want %v", tt.original, tt.cleaned, got, tt.want)
			}
		})
	}
}

func TestCleanOutputPath(t *testing.T) {
	got := cleanOutputPath(filepath.Join("d", "My Video.mp4"))
	want := filepath.Join("d", "My Video_clean.mp4")
	if got != want {
		t.Errorf("cleanOutputPath() = %q, want %q", got, want)
	}

	got = cleanOutputPath(filepath.Join("d", "clip.mkv"))
	want = filepath.Join("d", "clip_clean.mp4")
	if got != want {
		t.Errorf("cleanOutputPath(mkv) = %q, want %q", got, want)
	}
}

func TestFinalOutputPath(t *testing.T) {
	got := finalOutputPath("/d/clip.mp4", "/d/clip_clean.mp4")
	if got != "/d/clip_no_watermark.mp4" {
		t.Errorf("finalOutputPath(mp4) = %q", got)
	}

	// Non-mp4 inputs have no suffix to rewrite, keep the clean path.
	got = finalOutputPath("/d/clip.webm", "/d/clip_clean.mp4")
	if got != "/d/clip_clean.mp4" {
		t.Errorf("finalOutputPath(webm) = %q", got)
	}
}

func TestApplyWithoutFFmpeg(t *testing.T) {
	s := newServiceForTest(false)
	rec := &status.Recorder{}

	path, artifact := s.Apply(context.Background(), "/d/clip.mp4", model.PlatformTikTok, rec)
	if path != "/d/clip.mp4" {
		t.Errorf("Apply() = %q, want original path", path)
	}
	if artifact != nil {
		t.Errorf("artifact = %+v, want nil", artifact)
	}
	if last := rec.LastError(); !strings.Contains(last, "FFmpeg not available") {
		t.Errorf("LastError() = %q, want availability warning", last)
	}
}

func TestApplyMissingInput(t *testing.T) {
	s := newServiceForTest(true)
	rec := &status.Recorder{}

	missing := filepath.Join(t.TempDir(), "absent.mp4")
	path, artifact := s.Apply(context.Background(), missing, model.PlatformGeneric, rec)
	if path != missing {
		t.Errorf("Apply() = %q, want original path", path)
	}
	if artifact != nil {
		t.Errorf("artifact = %+v, want nil", artifact)
	}
	if rec.LastError() == "" {
		t.Error("expected a warning for a missing input file")
	}
}

func TestApplyFFmpegFailureKeepsOriginal(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("needs a POSIX shell")
	}
	s := newServiceForTest(true)
	rec := &status.Recorder{}

	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	// The input is not a real video, so ffmpeg exits non-zero if present;
	// if ffmpeg is absent the command error takes the same degrade path.
	path, artifact := s.Apply(context.Background(), input, model.PlatformTikTok, rec)
	if path != input {
		t.Errorf("Apply() = %q, want original path", path)
	}
	if artifact != nil {
		t.Errorf("artifact = %+v, want nil", artifact)
	}
	if rec.LastError() == "" {
		t.Error("expected a degrade warning")
	}
	if _, err := os.Stat(cleanOutputPath(input)); !os.IsNotExist(err) {
		t.Error("partial clean file should have been removed")
	}
}
