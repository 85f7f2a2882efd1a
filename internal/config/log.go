package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/handit-ai/handit-cli/internal/models"
)

// AppendTrace appends one received trace event to the session's log file,
// creating the file with a YAML-style header on first write.
func AppendTrace(sessionID string, ev models.TraceEvent, raw string) error {
	if err := EnsureGlobalLogsDir(); err != nil {
		return fmt.Errorf("failed to ensure logs dir: %w", err)
	}

	logsDir, err := GlobalLogsDir()
	if err != nil {
		return err
	}

	filePath := filepath.Join(logsDir, sessionID+".log")
	fresh := !FileExists(filePath)

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open trace log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if fresh {
		fmt.Fprintln(w, "---")
		fmt.Fprintf(w, "log_id: %s\n", sessionID)
		fmt.Fprintf(w, "session_id: %s\n", sessionID)
		fmt.Fprintf(w, "started_at: %s\n", time.Now().UTC().Format(time.RFC3339))
		fmt.Fprintln(w, "---")
	}

	line := raw
	if line == "" {
		line = fmt.Sprintf("action=%s status=%s", ev.Run.Action, ev.Run.Status)
	}
	fmt.Fprintf(w, "%s %s\n", ev.ReceivedAt.UTC().Format(time.RFC3339), line)

	return w.Flush()
}

// ReadTraceLog reads a session's trace log and returns metadata + body.
func ReadTraceLog(sessionID string) (*models.TraceLogEntry, string, error) {
	logsDir, err := GlobalLogsDir()
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(filepath.Join(logsDir, sessionID+".log"))
	if err != nil {
		return nil, "", fmt.Errorf("trace log not found: %w", err)
	}

	entry, body := parseTraceLog(string(data))
	if entry == nil {
		return nil, "", fmt.Errorf("invalid trace log format")
	}
	return entry, body, nil
}

func parseTraceLog(content string) (*models.TraceLogEntry, string) {
	lines := strings.Split(content, "\n")
	entry := &models.TraceLogEntry{}
	headerEnd := -1
	inHeader := false

	for i, line := range lines {
		if line == "---" {
			if !inHeader {
				inHeader = true
				continue
			}
			headerEnd = i
			break
		}
		if inHeader {
			parseTraceHeaderLine(entry, line)
		}
	}

	if headerEnd < 0 {
		return nil, ""
	}
	return entry, strings.Join(lines[headerEnd+1:], "\n")
}

func parseTraceHeaderLine(entry *models.TraceLogEntry, line string) {
	parts := strings.SplitN(line, ": ", 2)
	if len(parts) != 2 {
		return
	}
	key := strings.TrimSpace(parts[0])
	val := strings.TrimSpace(parts[1])

	switch key {
	case "log_id":
		entry.LogID = val
	case "session_id":
		entry.SessionID = val
	case "action":
		entry.Action = val
	case "status":
		entry.Status = val
	case "started_at":
		entry.StartedAt = val
	}
}

// AppendFeedback records denial feedback in ~/.handit/feedback.yaml.
func AppendFeedback(record models.FeedbackRecord) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalFeedbackFile()
	if err != nil {
		return err
	}

	var records []models.FeedbackRecord
	if FileExists(path) {
		if err := LoadYAML(path, &records); err != nil {
			return err
		}
	}
	records = append(records, record)

	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write feedback: %w", err)
	}
	return nil
}
