package fetch

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBlocked marks a response that signals the host is defending
	// against us (403, 429 or a captcha page). It counts toward the breaker.
	ErrBlocked = errors.New("blocked by remote host")

	// ErrFrozen is returned without any network activity while a host's
	// breaker is frozen.
	ErrFrozen = errors.New("circuit breaker frozen")
)

// BlockedError describes a block signal.
type BlockedError struct {
	URL        string
	StatusCode int
	Reason     string
}

func (e *BlockedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("blocked fetching %s: status %d: %s", e.URL, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("blocked fetching %s: %s", e.URL, e.Reason)
}

// Is lets errors.Is(err, ErrBlocked) match.
func (*BlockedError) Is(target error) bool { return target == ErrBlocked }

// FrozenError reports when a frozen breaker will accept calls again.
type FrozenError struct {
	Host  string
	Until time.Time
}

func (e *FrozenError) Error() string {
	return fmt.Sprintf("%s: %s frozen until %s", ErrFrozen, e.Host, e.Until.Format(time.RFC3339))
}

// Is lets errors.Is(err, ErrFrozen) match.
func (*FrozenError) Is(target error) bool { return target == ErrFrozen }

// TransportError is a network failure, timeout or server-side error. It is
// retryable and never affects the breaker.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transport error fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
