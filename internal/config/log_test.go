package config

import (
	"strings"
	"testing"
	"time"

	"github.com/handit-ai/handit-cli/internal/models"
)

func traceEvent(action string) models.TraceEvent {
	return models.TraceEvent{
		Run:        models.Run{Action: action, Status: "completed"},
		ReceivedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendTraceCreatesHeaderOnce(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := AppendTrace("sess-1", traceEvent("track"), "first line"); err != nil {
		t.Fatalf("AppendTrace() error = %v", err)
	}
	if err := AppendTrace("sess-1", traceEvent("track"), "second line"); err != nil {
		t.Fatalf("AppendTrace() error = %v", err)
	}

	entry, body, err := ReadTraceLog("sess-1")
	if err != nil {
		t.Fatalf("ReadTraceLog() error = %v", err)
	}
	if entry.SessionID != "sess-1" || entry.LogID != "sess-1" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.StartedAt == "" {
		t.Error("header missing started_at")
	}
	if strings.Count(body, "---") != 0 {
		t.Errorf("body contains header markers:\n%s", body)
	}
	if !strings.Contains(body, "first line") || !strings.Contains(body, "second line") {
		t.Errorf("body missing appended lines:\n%s", body)
	}
	if strings.Index(body, "first line") > strings.Index(body, "second line") {
		t.Error("lines out of arrival order")
	}
}

func TestAppendTraceEmptyRawFallsBack(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := AppendTrace("sess-2", traceEvent("track"), ""); err != nil {
		t.Fatalf("AppendTrace() error = %v", err)
	}

	_, body, err := ReadTraceLog("sess-2")
	if err != nil {
		t.Fatalf("ReadTraceLog() error = %v", err)
	}
	if !strings.Contains(body, "action=track status=completed") {
		t.Errorf("body = %q, want action/status fallback line", body)
	}
}

func TestReadTraceLogMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, _, err := ReadTraceLog("nope"); err == nil {
		t.Error("ReadTraceLog(missing) = nil error")
	}
}

func TestAppendFeedbackAccumulates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	recs := []models.FeedbackRecord{
		{ID: "1", SessionID: "sess-1", Text: "too verbose", CreatedAt: "2026-08-30T12:00:00Z"},
		{ID: "2", SessionID: "sess-1", Text: "wrong tone", CreatedAt: "2026-08-30T12:05:00Z"},
	}
	for _, rec := range recs {
		if err := AppendFeedback(rec); err != nil {
			t.Fatalf("AppendFeedback() error = %v", err)
		}
	}

	path, err := GlobalFeedbackFile()
	if err != nil {
		t.Fatal(err)
	}
	var loaded []models.FeedbackRecord
	if err := LoadYAML(path, &loaded); err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded))
	}
	if loaded[0].Text != "too verbose" || loaded[1].Text != "wrong tone" {
		t.Errorf("loaded = %+v", loaded)
	}
}
