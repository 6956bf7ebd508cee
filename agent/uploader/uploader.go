package uploader

import (
	"context"
	"math/rand"
	"time"

	"printtrack/agent/client"
	"printtrack/agent/queue"

	"github.com/sirupsen/logrus"
)

// Uploader drains the offline queue, one in-flight submission at a time so
// the server sees this agent's jobs in enqueue order.
type Uploader struct {
	queue     *queue.Queue
	client    *client.Client
	retention time.Duration
	logger    *logrus.Entry

	// Reauth is invoked when the server rejects the key. It should
	// re-register and install a fresh key, returning true to resume the
	// drain. Nil or false leaves the queue intact for the next cycle.
	Reauth func(ctx context.Context) bool

	backoffBase time.Duration
	backoffCap  time.Duration
}

// New creates an uploader over the queue and portal client.
func New(q *queue.Queue, c *client.Client, retention time.Duration) *Uploader {
	return &Uploader{
		queue:       q,
		client:      c,
		retention:   retention,
		logger:      logrus.WithField("component", "uploader"),
		backoffBase: 5 * time.Second,
		backoffCap:  5 * time.Minute,
	}
}

// Run drives the drain on an interval until ctx is cancelled. The agent
// keeps queuing while offline; each tick retries from wherever the last
// drain stopped.
func (u *Uploader) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info("uploader stopping")
			return
		case <-ticker.C:
			u.housekeep()
			u.Drain(ctx)
		}
	}
}

func (u *Uploader) housekeep() {
	if _, err := u.queue.PurgeExpired(u.retention); err != nil {
		u.logger.WithError(err).Warn("retention purge failed")
	}
	if err := u.queue.PruneAcked(); err != nil {
		u.logger.WithError(err).Warn("ack prune failed")
	}
}

// Drain submits pending items in FIFO order until the queue is empty, the
// context is cancelled, or the server turns the agent away. Transient
// failures back off exponentially and retry the same item; retry count is
// unbounded, bounded in time by the retention purge.
func (u *Uploader) Drain(ctx context.Context) {
	failures := 0

	for {
		if ctx.Err() != nil {
			return
		}

		item, err := u.queue.Next()
		if err != nil {
			u.logger.WithError(err).Error("queue read failed")
			return
		}
		if item == nil {
			return
		}

		res := u.client.Submit(ctx, item.ID, item.Payload)
		switch res.Outcome {
		case client.SubmitOK:
			failures = 0
			u.queue.Ack(item.ID)
			u.logger.WithFields(logrus.Fields{
				"submission_id": item.ID,
				"job_id":        res.JobID,
			}).Debug("job delivered")

		case client.SubmitDuplicate:
			failures = 0
			u.queue.Ack(item.ID)
			u.logger.WithField("submission_id", item.ID).Info("server already had this job")

		case client.SubmitRejected:
			failures = 0
			u.queue.FailPermanent(item.ID, res.Message)
			u.logger.WithFields(logrus.Fields{
				"submission_id": item.ID,
				"reason":        res.Message,
			}).Warn("job rejected by server, parked")

		case client.SubmitUnauthorized:
			u.queue.Fail(item.ID, res.Message)
			u.logger.Warn("api key rejected, halting drain")
			if u.Reauth != nil && u.Reauth(ctx) {
				continue
			}
			return

		case client.SubmitTransient:
			u.queue.Fail(item.ID, res.Message)
			failures++
			if !u.sleep(ctx, u.backoff(failures)) {
				return
			}
		}
	}
}

// backoff computes the jittered exponential delay for the nth consecutive
// transient failure.
func (u *Uploader) backoff(failures int) time.Duration {
	d := u.backoffBase
	for i := 1; i < failures && d < u.backoffCap; i++ {
		d *= 2
	}
	if d > u.backoffCap {
		d = u.backoffCap
	}
	// Up to 25% jitter keeps a fleet of agents from thundering back in
	// lockstep after an outage.
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

func (u *Uploader) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
