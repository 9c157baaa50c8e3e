package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dazzlo/video-downloader/internal/status"
)

func TestValidURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://example.com/v", true},
		{"http://example.com", true},
		{"not-a-url", false},
		{"", false},
		{"https://", false},
		{"/relative/path", false},
	}

	for _, test := range tests {
		if got := validURL(test.url); got != test.expected {
			t.Errorf("validURL(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{3671, "61:11"},
	}

	for _, test := range tests {
		if got := formatDuration(test.seconds); got != test.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", test.seconds, got, test.expected)
		}
	}
}

func TestReportProbeSingleItem(t *testing.T) {
	inv := NewInvoker(nil)
	rec := &status.Recorder{}

	info := &probeInfo{Title: "A Perfectly Normal Video", Uploader: "someone", Duration: 125}
	mediaInfo, capped := inv.reportProbe(info, 5, rec)

	if capped {
		t.Error("Single item should never be capped")
	}
	if mediaInfo.Title != "A Perfectly Normal Video" {
		t.Errorf("Unexpected title: %q", mediaInfo.Title)
	}

	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("Expected 1 status event, got %d", len(events))
	}
	msg := events[0].Message
	if !strings.Contains(msg, "by someone") || !strings.Contains(msg, "(2:05)") {
		t.Errorf("Status line missing uploader or duration: %q", msg)
	}
}

func TestReportProbeLongTitleTruncated(t *testing.T) {
	inv := NewInvoker(nil)
	rec := &status.Recorder{}

	info := &probeInfo{Title: strings.Repeat("t", 80)}
	inv.reportProbe(info, 5, rec)

	msg := rec.Events()[0].Message
	if strings.Count(msg, "t") > TitleDisplayLimit {
		t.Errorf("Title not truncated to %d chars: %q", TitleDisplayLimit, msg)
	}
}

func TestReportProbePlaylistCap(t *testing.T) {
	inv := NewInvoker(nil)
	rec := &status.Recorder{}

	entries := make([]*probeInfo, 0, 8)
	for i := 0; i < 7; i++ {
		entries = append(entries, &probeInfo{Title: "entry"})
	}
	entries = append(entries, nil) // engines emit null entries for gaps

	info := &probeInfo{Title: "My Playlist", Entries: entries}
	mediaInfo, capped := inv.reportProbe(info, 5, rec)

	if !capped {
		t.Error("Playlist with 7 valid entries should be capped at 5")
	}
	if mediaInfo.EntryCount != 7 {
		t.Errorf("Expected 7 valid entries, got %d", mediaInfo.EntryCount)
	}

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("Expected 2 status events, got %d", len(events))
	}
	if !strings.Contains(events[0].Message, "Found 7 videos") {
		t.Errorf("Unexpected first status line: %q", events[0].Message)
	}
	if !strings.Contains(events[1].Message, "first 5 videos of 7") {
		t.Errorf("Unexpected cap line: %q", events[1].Message)
	}
}

func TestReportProbeSmallPlaylistNotCapped(t *testing.T) {
	inv := NewInvoker(nil)
	rec := &status.Recorder{}

	info := &probeInfo{Entries: []*probeInfo{{}, {}, {}}}
	_, capped := inv.reportProbe(info, 5, rec)

	if capped {
		t.Error("Playlist of 3 should not be capped at 5")
	}
}

func TestProbeInfoJSONShapes(t *testing.T) {
	single := `{"title":"Clip","uploader":"u","duration":42.5}`
	var info probeInfo
	if err := json.Unmarshal([]byte(single), &info); err != nil {
		t.Fatalf("Failed to parse single payload: %v", err)
	}
	if info.Title != "Clip" || info.Duration != 42.5 || len(info.Entries) != 0 {
		t.Errorf("Unexpected single parse: %+v", info)
	}

	playlist := `{"_type":"playlist","title":"PL","entries":[{"title":"a"},null,{"title":"b"}]}`
	info = probeInfo{}
	if err := json.Unmarshal([]byte(playlist), &info); err != nil {
		t.Fatalf("Failed to parse playlist payload: %v", err)
	}
	if len(info.Entries) != 3 || info.Entries[1] != nil {
		t.Errorf("Unexpected playlist parse: %+v", info)
	}
}
