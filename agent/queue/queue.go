package queue

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Item states
const (
	StatePending         = "pending"
	StateInFlight        = "in-flight"
	StateAcked           = "acked"
	StateFailedPermanent = "failed-permanent"
)

// Item is one queued submission. ID doubles as the submission id sent to
// the server, so a retry after a crash de-duplicates server-side.
type Item struct {
	ID         string
	Payload    []byte
	EnqueuedAt time.Time
	Attempts   int
	State      string
	LastError  string
}

// Queue is the agent's durable FIFO buffer. Jobs wait here while the portal
// is unreachable and drain in enqueue order once it is back.
type Queue struct {
	db     *sql.DB
	logger *logrus.Entry
}

// Open opens (creating if needed) the queue database. Items left in-flight
// by a crash are reset to pending; the server's submission-id check makes
// the replay safe.
func Open(path string) (*Queue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open queue db: %w", err)
	}
	// One writer at a time keeps sqlite happy under the drain goroutine
	// plus enqueue callers.
	db.SetMaxOpenConns(1)

	q := &Queue{
		db:     db,
		logger: logrus.WithField("component", "queue"),
	}
	if err := q.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := q.recoverInFlight(); err != nil {
		db.Close()
		return nil, err
	}
	return q, nil
}

// Close closes the underlying database.
func (q *Queue) Close() error {
	return q.db.Close()
}

func (q *Queue) migrate() error {
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS queued_jobs (
			id          TEXT PRIMARY KEY,
			payload     TEXT NOT NULL,
			enqueued_at INTEGER NOT NULL,
			attempts    INTEGER NOT NULL DEFAULT 0,
			state       TEXT NOT NULL DEFAULT 'pending',
			last_error  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_queued_state ON queued_jobs(state);
		CREATE INDEX IF NOT EXISTS idx_queued_enqueued ON queued_jobs(enqueued_at);
	`)
	if err != nil {
		return fmt.Errorf("migrate queue db: %w", err)
	}
	return nil
}

func (q *Queue) recoverInFlight() error {
	res, err := q.db.Exec(`UPDATE queued_jobs SET state = ? WHERE state = ?`,
		StatePending, StateInFlight)
	if err != nil {
		return fmt.Errorf("recover in-flight items: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		q.logger.Warnf("reset %d in-flight items to pending after restart", n)
	}
	return nil
}

// Enqueue stores a payload and returns its submission id.
func (q *Queue) Enqueue(payload []byte) (string, error) {
	id := uuid.NewString()
	_, err := q.db.Exec(`
		INSERT INTO queued_jobs (id, payload, enqueued_at, state)
		VALUES (?, ?, ?, ?)
	`, id, string(payload), time.Now().Unix(), StatePending)
	if err != nil {
		return "", fmt.Errorf("enqueue: %w", err)
	}
	return id, nil
}

// Next claims the oldest pending item, moving it to in-flight. Returns
// nil when the queue is drained. Single consumer by contract. The rowid
// tie-break keeps insertion order for items enqueued within one second.
func (q *Queue) Next() (*Item, error) {
	row := q.db.QueryRow(`
		SELECT id, payload, enqueued_at, attempts, last_error
		FROM queued_jobs
		WHERE state = ?
		ORDER BY enqueued_at ASC, rowid ASC
		LIMIT 1
	`, StatePending)

	var item Item
	var payload string
	var enqueued int64
	err := row.Scan(&item.ID, &payload, &enqueued, &item.Attempts, &item.LastError)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next item: %w", err)
	}
	item.Payload = []byte(payload)
	item.EnqueuedAt = time.Unix(enqueued, 0)
	item.State = StateInFlight

	if _, err := q.db.Exec(`UPDATE queued_jobs SET state = ? WHERE id = ?`,
		StateInFlight, item.ID); err != nil {
		return nil, fmt.Errorf("claim item: %w", err)
	}
	return &item, nil
}

// Ack marks an item delivered. The row is kept briefly (pruned by
// PruneAcked) so storage stats stay inspectable.
func (q *Queue) Ack(id string) error {
	_, err := q.db.Exec(`UPDATE queued_jobs SET state = ? WHERE id = ?`, StateAcked, id)
	return err
}

// Fail returns an item to pending after a transient failure.
func (q *Queue) Fail(id string, cause string) error {
	_, err := q.db.Exec(`
		UPDATE queued_jobs
		SET state = ?, attempts = attempts + 1, last_error = ?
		WHERE id = ?
	`, StatePending, cause, id)
	return err
}

// FailPermanent parks an item after a malformed/validation response.
// The server will never accept it; retrying is pointless.
func (q *Queue) FailPermanent(id string, cause string) error {
	_, err := q.db.Exec(`
		UPDATE queued_jobs
		SET state = ?, attempts = attempts + 1, last_error = ?
		WHERE id = ?
	`, StateFailedPermanent, cause, id)
	return err
}

// PendingCount reports how many items still wait for delivery.
func (q *Queue) PendingCount() (int, error) {
	var n int
	err := q.db.QueryRow(`SELECT COUNT(*) FROM queued_jobs WHERE state IN (?, ?)`,
		StatePending, StateInFlight).Scan(&n)
	return n, err
}

// PurgeExpired drops items older than the retention cap regardless of
// state. Each purge is logged; nothing disappears without a trace.
func (q *Queue) PurgeExpired(retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := q.db.Exec(`DELETE FROM queued_jobs WHERE enqueued_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		q.logger.Warnf("purged %d items older than %s", n, retention)
	}
	return int(n), nil
}

// PruneAcked removes delivered rows older than a day.
func (q *Queue) PruneAcked() error {
	cutoff := time.Now().Add(-24 * time.Hour).Unix()
	_, err := q.db.Exec(`DELETE FROM queued_jobs WHERE state = ? AND enqueued_at < ?`,
		StateAcked, cutoff)
	return err
}

// Stats reports row counts per state.
func (q *Queue) Stats() (map[string]int, error) {
	rows, err := q.db.Query(`SELECT state, COUNT(*) FROM queued_jobs GROUP BY state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		stats[state] = count
	}
	return stats, rows.Err()
}
