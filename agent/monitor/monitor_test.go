package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirSource_PollConsumesInOrder(t *testing.T) {
	dir := t.TempDir()
	src, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource() failed: %v", err)
	}

	files := map[string]string{
		"1000000000000000001.json": `{"username":"alice","printer_name":"HP","pages":5,"print_time":"2026-03-01T09:00:00Z"}`,
		"1000000000000000002.json": `{"username":"bob","printer_name":"HP","pages":3,"print_time":"2026-03-01T09:01:00Z"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write event file: %v", err)
		}
	}

	events, err := src.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Username != "alice" || events[1].Username != "bob" {
		t.Errorf("Events out of capture order: %s, %s", events[0].Username, events[1].Username)
	}

	// Consumed files are gone; the next poll is empty.
	events, err = src.Poll(context.Background())
	if err != nil {
		t.Fatalf("Second Poll() failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected no events on second poll, got %d", len(events))
	}
}

func TestDirSource_CorruptFileMovedAside(t *testing.T) {
	dir := t.TempDir()
	src, _ := NewDirSource(dir)

	os.WriteFile(filepath.Join(dir, "1.json"), []byte(`{not json`), 0o644)
	os.WriteFile(filepath.Join(dir, "2.json"), []byte(`{"username":"carol","printer_name":"HP","pages":1}`), 0o644)

	events, err := src.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() failed: %v", err)
	}

	if len(events) != 1 || events[0].Username != "carol" {
		t.Fatalf("Expected the intact event only, got %+v", events)
	}

	if _, err := os.Stat(filepath.Join(dir, "1.json.bad")); err != nil {
		t.Error("Corrupt file should be moved aside with .bad suffix")
	}
}

func TestDirSource_DefaultsPrintTime(t *testing.T) {
	dir := t.TempDir()
	src, _ := NewDirSource(dir)

	os.WriteFile(filepath.Join(dir, "1.json"), []byte(`{"username":"dave","printer_name":"HP","pages":2}`), 0o644)

	events, err := src.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll() failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].PrintTime.IsZero() {
		t.Error("Missing print_time should default to capture time")
	}
}
