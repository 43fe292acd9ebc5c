// Package metrics times engine operations and logs their duration.
//
//	timer := metrics.StartTimer(ctx, logger, "cleanup").AddField("profile", name)
//	defer timer.Stop()
package metrics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-syncguard/internal/logging"
)

// SlowThreshold is the duration above which an operation is logged as a warning.
const SlowThreshold = 30 * time.Second

// Timer tracks the duration of one operation and the fields logged with it.
type Timer struct {
	start     time.Time
	operation string
	logger    *logrus.Entry
	fields    logrus.Fields
	ctx       context.Context //nolint:containedctx // checked by Canceled during the operation
	now       func() time.Time
}

// StartTimer starts timing operation.
func StartTimer(ctx context.Context, logger *logrus.Entry, operation string) *Timer {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Timer{
		start:     time.Now(),
		operation: operation,
		logger:    logger.WithField(logging.StandardFields.Operation, operation),
		fields:    make(logrus.Fields),
		ctx:       ctx,
		now:       time.Now,
	}
}

// AddField adds a field to the log entry written when the timer stops.
func (t *Timer) AddField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Stop logs the duration and returns it.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError logs the duration with the outcome of the operation. Failures
// are logged at error level, slow successes as warnings, the rest at debug.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := t.Elapsed()

	t.fields[logging.StandardFields.DurationMs] = duration.Milliseconds()
	t.fields["duration_human"] = duration.String()

	entry := t.logger.WithFields(t.fields)
	switch {
	case err != nil:
		entry.WithField(logging.StandardFields.Status, "failed").WithError(err).Error("Operation failed")
	case duration > SlowThreshold:
		entry.WithField(logging.StandardFields.Status, "completed").Warn("Operation completed but took longer than expected")
	default:
		entry.WithField(logging.StandardFields.Status, "completed").Debug("Operation completed")
	}

	return duration
}

// Canceled reports whether the operation context is done.
func (t *Timer) Canceled() bool {
	if t.ctx == nil {
		return false
	}
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Elapsed returns the time since the timer started without stopping it.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}
