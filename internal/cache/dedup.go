package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// SubmissionGuard is the fast path of submission-id de-duplication: one
// SET NX EX per submission, value = assigned job id. The unique index on
// print_jobs.submission_id remains the durable guard; losing Redis only
// costs the cheap lookup, never correctness.
type SubmissionGuard struct {
	client *redis.Client
	window time.Duration
}

// NewSubmissionGuard creates a guard over the shared Redis client.
func NewSubmissionGuard(client *redis.Client, window time.Duration) *SubmissionGuard {
	return &SubmissionGuard{client: client, window: window}
}

func dedupKey(submissionID string) string {
	return "dedup:submit:" + submissionID
}

// Reserve attempts to claim a submission id. Returns reserved=false together
// with the previously assigned job id when the id was already claimed within
// the window. A job id of 0 means the original claim never completed; the
// caller falls through to the unique index. A Redis failure is returned for
// logging but still reads as a miss so ingestion proceeds.
func (g *SubmissionGuard) Reserve(ctx context.Context, submissionID string) (reserved bool, existingJobID int, err error) {
	if g == nil || g.client == nil {
		return true, 0, nil
	}

	ok, err := g.client.SetNX(ctx, dedupKey(submissionID), 0, g.window).Result()
	if err != nil {
		return true, 0, err
	}
	if ok {
		return true, 0, nil
	}

	val, err := g.client.Get(ctx, dedupKey(submissionID)).Result()
	if err != nil {
		return false, 0, err
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return false, 0, fmt.Errorf("corrupt dedup entry for %s: %w", submissionID, err)
	}
	return false, id, nil
}

// Commit records the assigned job id so later retries can be answered
// without touching the store.
func (g *SubmissionGuard) Commit(ctx context.Context, submissionID string, jobID int) {
	if g == nil || g.client == nil {
		return
	}
	g.client.Set(ctx, dedupKey(submissionID), jobID, g.window)
}

// Release drops a reservation after a failed insert so the agent's retry
// is not misread as a duplicate.
func (g *SubmissionGuard) Release(ctx context.Context, submissionID string) {
	if g == nil || g.client == nil {
		return
	}
	g.client.Del(ctx, dedupKey(submissionID))
}
