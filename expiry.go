package ewallet

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultSessionTTL matches the read-write session lifetime requested
	// from the enclave.
	DefaultSessionTTL = 900 * time.Second
	// DefaultWarningLead is how far ahead of expiry the warning fires.
	DefaultWarningLead = 15 * time.Second
)

// ExpiryScheduler arms a warning timer ahead of a session's expiry and a
// clear timer at the expiry instant itself. The scheduler only raises the
// local warning signal; hard expiry is enforced by Session.CanReadWrite
// when the next call checks the token.
//
// Arm always cancels previously armed timers first, so a renewed or
// destroyed session can never be warned about by a stale timer.
type ExpiryScheduler struct {
	mu      sync.Mutex
	lead    time.Duration
	now     func() time.Time
	onWarn  func(expiring bool)
	warn    *time.Timer
	clear   *time.Timer
	expiry  time.Time
	armed   bool
	seq     uint64
	logger  Logger
}

type ExpirySchedulerOption func(*ExpiryScheduler)

// WithExpiryClock injects a custom clock (useful for tests).
func WithExpiryClock(clock func() time.Time) ExpirySchedulerOption {
	return func(s *ExpiryScheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithExpiryLogger(logger Logger) ExpirySchedulerOption {
	return func(s *ExpiryScheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewExpiryScheduler builds a scheduler that reports warning transitions
// through onWarn. A non-positive lead falls back to DefaultWarningLead.
func NewExpiryScheduler(lead time.Duration, onWarn func(expiring bool), opts ...ExpirySchedulerOption) *ExpiryScheduler {
	if lead <= 0 {
		lead = DefaultWarningLead
	}

	s := &ExpiryScheduler{
		lead:   lead,
		now:    time.Now,
		onWarn: onWarn,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Arm schedules the warning at expiry-lead and the clear at expiry,
// cancelling any previously armed pair. An expiry already in the past is
// ignored.
func (s *ExpiryScheduler) Arm(expiry time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	now := s.now()
	if !expiry.After(now) {
		s.logger.Debug("expiry scheduler: expiry %s not in the future, skipping", expiry)
		return
	}

	s.seq++
	seq := s.seq
	s.expiry = expiry
	s.armed = true

	untilWarning := expiry.Add(-s.lead).Sub(now)
	if untilWarning < 0 {
		untilWarning = 0
	}

	s.warn = time.AfterFunc(untilWarning, func() {
		s.fire(seq, true)

		// The clear timer is armed only once the warning fired, from the
		// remaining distance to the absolute expiry.
		s.mu.Lock()
		if s.seq == seq && s.armed {
			untilExpiry := s.expiry.Sub(s.now())
			if untilExpiry < 0 {
				untilExpiry = 0
			}
			s.clear = time.AfterFunc(untilExpiry, func() {
				s.fire(seq, false)
			})
		}
		s.mu.Unlock()
	})
}

// Cancel stops any armed timers. Safe to call repeatedly, and after Cancel
// no callback from the previous arming can fire.
func (s *ExpiryScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Remaining recomputes time left until expiry from the absolute deadline,
// so it stays correct across suspended or throttled timers. Returns zero
// when nothing is armed or the deadline passed.
func (s *ExpiryScheduler) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return 0
	}
	d := s.expiry.Sub(s.now())
	if d < 0 {
		return 0
	}
	return d
}

// Countdown ticks once per second until expiry or context cancellation,
// reporting whole seconds remaining. Each tick re-derives from the
// absolute expiry rather than decrementing a counter.
func (s *ExpiryScheduler) Countdown(ctx context.Context, tick func(remaining time.Duration)) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		remaining := s.Remaining()
		tick(remaining)
		if remaining <= 0 {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ExpiryScheduler) fire(seq uint64, expiring bool) {
	s.mu.Lock()
	stale := s.seq != seq || !s.armed
	if !stale && !expiring {
		s.armed = false
	}
	s.mu.Unlock()

	if stale {
		return
	}
	if s.onWarn != nil {
		s.onWarn(expiring)
	}
}

func (s *ExpiryScheduler) cancelLocked() {
	if s.warn != nil {
		s.warn.Stop()
		s.warn = nil
	}
	if s.clear != nil {
		s.clear.Stop()
		s.clear = nil
	}
	s.armed = false
	s.seq++
}
