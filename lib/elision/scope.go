package elision

import (
	"github.com/ValentinKolb/elide/lib/htm"
)

// DefaultMaxRetries is the number of additional transaction attempts a
// scope makes after the first one before taking the fallback lock.
const DefaultMaxRetries = 3

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

type scopeOptions struct {
	maxRetries int
	provider   htm.Provider
	stats      *Stats
}

// Option configures a scope entry.
type Option func(*scopeOptions)

// WithMaxRetries overrides the retry bound (default DefaultMaxRetries).
// A bound of 0 allows exactly one transaction attempt. Negative values
// skip the transactional path entirely.
func WithMaxRetries(n int) Option {
	return func(o *scopeOptions) { o.maxRetries = n }
}

// WithProvider overrides the hardware transaction provider (default
// htm.Auto). Passing htm.Disabled forces every entry onto the lock path,
// which is useful in tests and on hosts without RTM.
func WithProvider(p htm.Provider) Option {
	return func(o *scopeOptions) { o.provider = p }
}

// WithStats records entry modes and abort causes into s.
func WithStats(s *Stats) Option {
	return func(o *scopeOptions) { o.stats = s }
}

// --------------------------------------------------------------------------
// Scope
// --------------------------------------------------------------------------

// Scope guards one invocation of a critical section. It is created by
// Enter, which fixes the execution mode (transactional or locked), and
// torn down by Exit, which terminates that mode and runs the registered
// callbacks.
//
// A Scope is owned by the goroutine that entered it: it must not be
// copied, shared, or reused after Exit.
type Scope struct {
	_        noCopy
	fallback FallbackLock
	tm       htm.Provider
	stats    *Stats
	locked   bool
	exited   bool
	cbs      []func()
}

// Enter runs the entry protocol and returns a scope in exactly one of
// two modes: transactional (a hardware transaction is open and the body
// executes speculatively) or locked (the fallback lock is held). In both
// modes the caller runs the critical section next and must call Exit on
// every path out of it, typically via defer.
//
// The scope never returns control while another thread runs the same
// critical section non-transactionally: a started transaction
// re-validates that the fallback lock is free before Enter returns, and
// that read subscribes the lock state to the transaction's read set, so
// a later acquisition aborts the transaction in hardware even if the
// explicit check raced.
func Enter(fallback FallbackLock, opts ...Option) *Scope {
	o := scopeOptions{
		maxRetries: DefaultMaxRetries,
		provider:   htm.Auto(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	// The scope is allocated before the first Begin so that no
	// allocation happens inside an open transaction.
	s := &Scope{fallback: fallback, tm: o.provider, stats: o.stats}

	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		status := s.tm.Begin()

		if htm.Started(status) {
			if !s.fallback.Held() {
				// Transactional mode. The body now executes inside the
				// open transaction; Exit commits it.
				return s
			}

			// The lock is held, abort explicitly with the reserved
			// contention code. On hardware this does not return -
			// control reappears at the Begin above with the abort
			// status. A software provider returns normally instead, so
			// the status is synthesized by hand.
			s.tm.AbortContention()
			status = htm.ExplicitStatus(htm.CodeContention)
		}

		if htm.IsContentionAbort(status) {
			s.stats.contentionAbort()

			// Wait for a window in which nobody is in the critical
			// section, then retry optimistically. Acquiring and
			// immediately releasing blocks until the holder is gone
			// without serializing behind the lock for the body itself.
			s.fallback.Lock()
			s.fallback.Unlock()
			continue
		}

		s.stats.hardwareAbort()

		if !htm.MayRetry(status) {
			// Capacity aborts and conflicting accesses are unlikely to
			// be transient; stop burning attempts and take the
			// guaranteed-progress path.
			break
		}
	}

	s.fallback.Lock()
	s.locked = true
	return s
}

// OnCommit registers a callback to run after the critical section has
// definitively ended (transaction committed or lock released). Callbacks
// run in registration order, exactly once, and must not panic - they
// execute during scope teardown. A callback must not register further
// callbacks on the same scope.
//
// Registration has no effect on which execution mode the scope uses.
func (s *Scope) OnCommit(cb func()) {
	if s.exited {
		panic("elision: OnCommit after Exit")
	}
	s.cbs = append(s.cbs, cb)
}

// Exit terminates the mode fixed at entry - committing the transaction
// or releasing the fallback lock - and then runs the registered
// callbacks in order. Exit is idempotent; calls after the first are
// no-ops, so it can be deferred and also called on early-return paths.
func (s *Scope) Exit() {
	if s.exited {
		return
	}
	s.exited = true

	if s.locked {
		s.fallback.Unlock()
		s.stats.lockedEntry()
	} else {
		s.tm.Commit()
		// Stats only after the commit: a shared counter touched inside
		// the transaction would make concurrent elisions conflict.
		s.stats.elidedEntry()
	}

	// The section has ended, callback effects are no longer part of the
	// transaction's atomicity and are visible to all threads.
	for _, cb := range s.cbs {
		cb()
	}
	s.cbs = nil
}

// Elided reports whether the scope entered in transactional mode. Only
// meaningful after Enter has returned; the mode never changes afterwards.
func (s *Scope) Elided() bool {
	return !s.locked
}
