package log

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON records in memory for inspection in tests.
type TestLogger struct {
	Logger
	buffer *bytes.Buffer
}

// NewTestLogger returns a TestLogger at level and the buffer it writes to.
//
//	logger, buf := log.NewTestLogger(log.LevelDebug)
//	tree, _ := tree.New("cart", tree.WithLogger(logger))
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return &TestLogger{Logger: NewLogger(buffer, level), buffer: buffer}, buffer
}

// GetLogEntries decodes every captured record.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(t.buffer.Bytes()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		entry := make(map[string]interface{})
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// ContainsMessage reports whether any record has message msg.
func (t *TestLogger) ContainsMessage(msg string) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry[zerolog.MessageFieldName] == msg {
			return true
		}
	}
	return false
}

// ContainsField reports whether any record has key set to value. Values are compared by
// their fmt representation because JSON numbers decode as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	want := fmt.Sprint(value)
	for _, entry := range entries {
		if v, ok := entry[key]; ok && fmt.Sprint(v) == want {
			return true
		}
	}
	return false
}

// Clear drops everything captured so far.
func (t *TestLogger) Clear() {
	t.buffer.Reset()
}
