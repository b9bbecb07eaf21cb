package review

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// effectRunner executes the bookkeeping that trails a primary decision:
// notifications, rejection emails, soft audit writes, certificate rendering.
// Each task gets a bounded number of attempts; the final failure is logged
// and swallowed so it can never corrupt the decision it follows.
type effectRunner struct {
	logger   *logrus.Logger
	attempts int
	backoff  time.Duration
}

func newEffectRunner(logger *logrus.Logger, attempts int, backoff time.Duration) *effectRunner {
	if attempts < 1 {
		attempts = 1
	}
	return &effectRunner{logger: logger, attempts: attempts, backoff: backoff}
}

// run executes the task, retrying up to the configured attempt count.
// Returns true when the task eventually succeeded.
func (r *effectRunner) run(ctx context.Context, task string, fn func(context.Context) error) bool {

	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return true
		}

		if attempt < r.attempts {
			select {
			case <-ctx.Done():
				r.logger.WithError(ctx.Err()).WithField("task", task).Warn("side effect abandoned")
				return false
			case <-time.After(r.backoff):
			}
		}
	}

	r.logger.WithError(err).WithFields(logrus.Fields{
		"task":     task,
		"attempts": r.attempts,
	}).Warn("side effect failed")

	return false
}
