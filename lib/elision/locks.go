package elision

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// noCopy makes go vet's copylocks check flag value copies of the types
// embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// spinBackoff implements the contention backoff used by the spinning
// locks in this package:
//   - at low contention: CPU spinning to avoid scheduling overhead
//   - at higher contention: yield the processor so other goroutines
//     (including the lock holder) can make progress
//   - the backoff grows exponentially with each retry to reduce the
//     "thundering herd" problem where all waiters retry simultaneously
func spinBackoff(backoff *uint8) {
	if *backoff < 10 {
		*backoff++
		for i := 0; i < 1<<*backoff; i++ {
			runtime.Gosched()
		}
	}
	runtime.Gosched()
}

// --------------------------------------------------------------------------
// SpinLock
// --------------------------------------------------------------------------

// SpinLock is a test-and-set spinlock with exponential backoff. Its state
// is a single atomic word, so Held is an exact, non-mutating query - the
// preferred fallback lock for elision.
//
// The zero value is an unlocked SpinLock. It must not be copied after
// first use.
type SpinLock struct {
	_      noCopy
	locked atomic.Bool
}

// Lock blocks until the lock is acquired.
func (l *SpinLock) Lock() {
	var backoff uint8
	for {
		// test before test-and-set to avoid hammering the cache line
		if !l.locked.Load() && l.locked.CompareAndSwap(false, true) {
			return
		}
		spinBackoff(&backoff)
	}
}

// Unlock releases the lock. Calling Unlock on an unlocked SpinLock is a
// programming error and panics.
func (l *SpinLock) Unlock() {
	if !l.locked.CompareAndSwap(true, false) {
		panic("elision: Unlock of unlocked SpinLock")
	}
}

// Held reports whether the lock is currently held by some goroutine.
//
// Thread-safety: This method is safe for concurrent use and never
// reports free while the lock is held.
func (l *SpinLock) Held() bool {
	return l.locked.Load()
}

// --------------------------------------------------------------------------
// TicketLock
// --------------------------------------------------------------------------

// TicketLock is a fair FIFO spinlock: goroutines acquire it in the exact
// order they called Lock. Lock takes a ticket and spins until the serving
// counter reaches it; Unlock serves the next ticket.
//
// The zero value is an unlocked TicketLock. It must not be copied after
// first use.
type TicketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

// Lock blocks until the lock is acquired.
func (l *TicketLock) Lock() {
	ticket := l.next.Add(1) - 1
	var backoff uint8
	for l.serving.Load() != ticket {
		spinBackoff(&backoff)
	}
}

// Unlock releases the lock and hands it to the next waiting ticket.
func (l *TicketLock) Unlock() {
	l.serving.Add(1)
}

// Held reports whether the lock is currently held or has waiters.
//
// serving is read before next: a concurrent acquire between the two
// loads can only make the result read as held (a harmless false
// positive), never as free while held.
func (l *TicketLock) Held() bool {
	serving := l.serving.Load()
	return l.next.Load() != serving
}

// --------------------------------------------------------------------------
// MutexLock
// --------------------------------------------------------------------------

// MutexLock adapts sync.Mutex as a fallback lock. sync.Mutex exposes no
// safe, non-mutating liveness query, so Held conservatively reports
// false. Transactional entries over a MutexLock therefore never abort
// explicitly for contention; mutual exclusion still holds because any
// memory conflict with the lock-holding goroutine aborts the transaction
// in hardware, at the cost of elision opportunity under contention.
//
// The zero value is an unlocked MutexLock. It must not be copied after
// first use.
type MutexLock struct {
	mu sync.Mutex
}

// Lock blocks until the lock is acquired.
func (l *MutexLock) Lock() { l.mu.Lock() }

// Unlock releases the lock.
func (l *MutexLock) Unlock() { l.mu.Unlock() }

// Held always reports false, see the type documentation.
func (l *MutexLock) Held() bool { return false }
