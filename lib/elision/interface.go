package elision

import (
	"sync"
)

// FallbackLock is the lock capability a Scope elides. It is an ordinary
// mutual-exclusion lock extended by a best-effort liveness query.
//
// The lock is owned by the caller and shared by all scopes racing on the
// same critical section; a scope never owns or replaces it.
type FallbackLock interface {
	sync.Locker

	// Held reports whether some thread currently holds the lock. The
	// query must not mutate the lock.
	//
	// A false negative (reporting free while held) is a correctness
	// violation. A false positive (reporting held while free) only costs
	// a spurious abort and retry. Implementations without a safe query
	// must therefore bias toward "held" when uncertain - or always
	// report false, which shifts contention detection entirely to the
	// hardware conflict backstop (see MutexLock).
	Held() bool
}
