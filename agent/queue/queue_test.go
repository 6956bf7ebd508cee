package queue

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := Open(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := openTestQueue(t)

	var ids []string
	for _, doc := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		id, err := q.Enqueue([]byte(`{"document_name":"` + doc + `"}`))
		if err != nil {
			t.Fatalf("Enqueue() failed: %v", err)
		}
		ids = append(ids, id)
	}

	for i := 0; i < 3; i++ {
		item, err := q.Next()
		if err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
		if item == nil {
			t.Fatalf("Expected item %d, queue empty", i)
		}
		if item.ID != ids[i] {
			t.Errorf("Item %d: expected id %s, got %s", i, ids[i], item.ID)
		}
		if err := q.Ack(item.ID); err != nil {
			t.Fatalf("Ack() failed: %v", err)
		}
	}

	item, err := q.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if item != nil {
		t.Errorf("Expected drained queue, got %s", item.ID)
	}
}

func TestQueue_FailReturnsToPending(t *testing.T) {
	q := openTestQueue(t)

	id, err := q.Enqueue([]byte(`{}`))
	if err != nil {
		t.Fatalf("Enqueue() failed: %v", err)
	}

	item, _ := q.Next()
	if item == nil || item.ID != id {
		t.Fatal("Expected the enqueued item")
	}

	if err := q.Fail(id, "connection refused"); err != nil {
		t.Fatalf("Fail() failed: %v", err)
	}

	item, _ = q.Next()
	if item == nil {
		t.Fatal("Failed item should be claimable again")
	}
	if item.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", item.Attempts)
	}
	if item.LastError != "connection refused" {
		t.Errorf("Expected recorded cause, got %q", item.LastError)
	}
}

func TestQueue_FailPermanentNotRetried(t *testing.T) {
	q := openTestQueue(t)

	id, _ := q.Enqueue([]byte(`{}`))
	item, _ := q.Next()
	if item == nil {
		t.Fatal("Expected item")
	}

	if err := q.FailPermanent(id, "field 'printer_name' is required"); err != nil {
		t.Fatalf("FailPermanent() failed: %v", err)
	}

	item, _ = q.Next()
	if item != nil {
		t.Error("failed-permanent item must not be claimable")
	}

	stats, err := q.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats[StateFailedPermanent] != 1 {
		t.Errorf("Expected 1 failed-permanent item, got %d", stats[StateFailedPermanent])
	}
}

func TestQueue_DurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")

	q, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, _ := q.Enqueue([]byte(`{"pages":5}`))

	// Claim but neither ack nor fail, then simulate a crash.
	if item, _ := q.Next(); item == nil {
		t.Fatal("Expected item")
	}
	q.Close()

	q2, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer q2.Close()

	// The in-flight item must be back to pending.
	item, err := q2.Next()
	if err != nil {
		t.Fatalf("Next() failed: %v", err)
	}
	if item == nil || item.ID != id {
		t.Fatal("Item claimed before crash should survive and be claimable")
	}
	if string(item.Payload) != `{"pages":5}` {
		t.Errorf("Payload corrupted across reopen: %s", item.Payload)
	}
}

func TestQueue_PurgeExpired(t *testing.T) {
	q := openTestQueue(t)

	oldID, _ := q.Enqueue([]byte(`{"document_name":"old.pdf"}`))
	freshID, _ := q.Enqueue([]byte(`{"document_name":"fresh.pdf"}`))

	// Backdate one item past the retention cap.
	cutoff := time.Now().Add(-8 * 24 * time.Hour).Unix()
	if _, err := q.db.Exec(`UPDATE queued_jobs SET enqueued_at = ? WHERE id = ?`, cutoff, oldID); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	purged, err := q.PurgeExpired(7 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeExpired() failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purged item, got %d", purged)
	}

	item, _ := q.Next()
	if item == nil || item.ID != freshID {
		t.Error("Fresh item should survive the purge")
	}

	n, _ := q.PendingCount()
	if n != 1 {
		t.Errorf("Expected pending count 1 (claimed item counts), got %d", n)
	}
}

func TestQueue_PendingCount(t *testing.T) {
	q := openTestQueue(t)

	if n, _ := q.PendingCount(); n != 0 {
		t.Errorf("Expected empty queue, got %d", n)
	}

	q.Enqueue([]byte(`{}`))
	q.Enqueue([]byte(`{}`))

	if n, _ := q.PendingCount(); n != 2 {
		t.Errorf("Expected 2 pending, got %d", n)
	}
}
