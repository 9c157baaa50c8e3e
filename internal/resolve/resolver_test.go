package resolve

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dazzlo/video-downloader/internal/model"
	"github.com/dazzlo/video-downloader/internal/status"
)

const (
	testWindow  = 300 * time.Second
	testMinSize = 1024
)

func writeFile(t *testing.T, dir, name string, size int, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestScanEligibility(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		age      time.Duration
		eligible bool
	}{
		{"exactly minimum size", 1024, time.Second, false},
		{"one byte over minimum", 1025, time.Second, true},
		{"just inside window", 1025, 299 * time.Second, true},
		{"outside window", 1025, 301 * time.Second, false},
		{"tiny and stale", 10, time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "video.mp4", tt.size, tt.age)

			r := NewResolver(testWindow, testMinSize)
			got := r.Scan(dir)
			if eligible := len(got) == 1; eligible != tt.eligible {
				t.Errorf("eligible = %v, want %v", eligible, tt.eligible)
			}
		})
	}
}

func TestScanSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "subdir.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "real.mp4", 2048, time.Second)

	r := NewResolver(testWindow, testMinSize)
	got := r.Scan(dir)
	if len(got) != 1 || got[0].Name != "real.mp4" {
		t.Errorf("Scan() = %v, want only real.mp4", got)
	}
}

func TestScanMissingDir(t *testing.T) {
	r := NewResolver(testWindow, testMinSize)
	if got := r.Scan(filepath.Join(t.TempDir(), "absent")); got != nil {
		t.Errorf("Scan(missing) = %v, want nil", got)
	}
}

func TestLatestPrefersNewestVideo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", 2048, 10*time.Second)
	writeFile(t, dir, "b.mp4", 2048, 5*time.Second)
	writeFile(t, dir, "c.mkv", 2048, 8*time.Second)

	r := NewResolver(testWindow, testMinSize)
	got := r.Latest(dir)
	if got == nil {
		t.Fatal("Latest() = nil, want a video candidate")
	}
	if got.Name != "b.mp4" {
		t.Errorf("Latest().Name = %q, want b.mp4", got.Name)
	}
}

func TestLatestIgnoresNonVideo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", 2048, time.Second)

	r := NewResolver(testWindow, testMinSize)
	if got := r.Latest(dir); got != nil {
		t.Errorf("Latest() = %v, want nil", got)
	}
}

func TestVerifyVideoSuccess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip.mp4", 2*BytesPerMegabyte, time.Second)

	rec := &status.Recorder{}
	r := NewResolver(testWindow, testMinSize)
	info := &model.MediaInfo{Title: "My Clip"}
	candidate, outcome := r.Verify(dir, info, rec)

	if !outcome.Success {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if candidate == nil || candidate.Name != "clip.mp4" {
		t.Fatalf("candidate = %v, want clip.mp4", candidate)
	}
	if !strings.Contains(outcome.Message, "My Clip") || !strings.Contains(outcome.Message, "2.0MB") {
		t.Errorf("Message = %q, want title and size", outcome.Message)
	}
	if outcome.Info != info {
		t.Error("outcome should carry the media info through")
	}
}

func TestVerifyTruncatesLongTitle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "clip.mp4", 2048, time.Second)

	long := strings.Repeat("x", 60)
	rec := &status.Recorder{}
	r := NewResolver(testWindow, testMinSize)
	_, outcome := r.Verify(dir, &model.MediaInfo{Title: long}, rec)

	if strings.Contains(outcome.Message, long) {
		t.Errorf("Message = %q, want title truncated to %d runes", outcome.Message, TitleDisplayLimit)
	}
	if !strings.Contains(outcome.Message, strings.Repeat("x", TitleDisplayLimit)) {
		t.Errorf("Message = %q, want truncated title prefix", outcome.Message)
	}
}

func TestVerifyNonVideoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", 2048, time.Second)
	writeFile(t, dir, "two.srt", 2048, time.Second)

	rec := &status.Recorder{}
	r := NewResolver(testWindow, testMinSize)
	candidate, outcome := r.Verify(dir, nil, rec)

	if !outcome.Success {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if candidate != nil {
		t.Errorf("candidate = %v, want nil for non-video files", candidate)
	}
	if outcome.Message != "Downloaded 2 file(s)" {
		t.Errorf("Message = %q", outcome.Message)
	}
}

func TestVerifyNothingProduced(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stale.mp4", 2048, time.Hour)

	rec := &status.Recorder{}
	r := NewResolver(testWindow, testMinSize)
	candidate, outcome := r.Verify(dir, nil, rec)

	if outcome.Success {
		t.Fatalf("outcome = %+v, want failure", outcome)
	}
	if outcome.Kind != model.ErrorKindNoFilesProduced {
		t.Errorf("Kind = %q, want %q", outcome.Kind, model.ErrorKindNoFilesProduced)
	}
	if candidate != nil {
		t.Errorf("candidate = %v, want nil", candidate)
	}
	if last := rec.LastError(); last == "" {
		t.Error("Recorder should have captured the error report")
	}
}
