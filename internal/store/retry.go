package store

import (
	"strings"
	"time"
)

// DefaultBatchSize groups bulk inserts into chunks of this many rows per
// transaction, per "every bulk op groups by a configurable batch size".
const DefaultBatchSize = 500

const (
	defaultMaxRetryAttempts = 3
	defaultRetryDelay       = 25 * time.Millisecond
)

// withRetry runs fn up to s.maxRetries times in all, sleeping a fixed
// delay after each failure that looks transient (lock contention, busy
// connection); when every attempt fails, the last error is returned as is.
// Non-transient failures are returned immediately so they can
// abort the caller with the partial work rolled back to the last completed
// batch boundary.
func (s *Store) withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		time.Sleep(s.retryDelay)
	}
	return err
}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
}
