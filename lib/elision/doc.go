// Package elision implements speculative lock elision for short critical
// sections. A Scope runs its critical section optimistically inside a
// hardware transaction (Intel RTM, see the htm package) and only falls
// back to an ordinary mutual-exclusion lock when the transaction cannot
// complete. Under low contention most entries therefore pay no locking
// cost at all, while the fallback lock keeps correctness unconditional.
//
// Core Functionality:
//   - Scope: per-invocation guard entered with Enter and left with Exit,
//     running the critical section either transactionally or under the
//     fallback lock with no observable difference to the body
//   - FallbackLock: the lock capability a Scope elides, with a
//     best-effort liveness query (Held)
//   - Commit callbacks: handlers registered with OnCommit run exactly
//     once after the critical section has definitively ended
//   - Stats: per-section counters for entry modes and abort causes
//
// Entry Protocol:
//
//	Enter attempts to open a hardware transaction up to maxRetries+1
//	times. A started transaction first re-validates that the fallback
//	lock is free; this read also subscribes the lock state to the
//	transaction's read set, so a thread that later takes the lock aborts
//	the transaction even if the explicit check raced. If the lock is
//	held, the transaction aborts itself with the reserved contention
//	code, then waits for the lock to become free (acquire and release -
//	the wait holds no ownership) before retrying. Aborts without the
//	hardware retry hint (capacity, conflicting access) stop the retry
//	loop early. When the retries are exhausted the scope acquires the
//	fallback lock and the body runs under plain mutual exclusion.
//
// Exit Protocol:
//
//	Exit commits the transaction or releases the lock, whichever mode
//	was fixed at entry, and then runs the registered callbacks in
//	registration order. Callbacks execute after the section has ended so
//	their side effects are not part of the transaction's atomicity; a
//	panicking callback is a caller contract violation. Exit is
//	idempotent, so "defer scope.Exit()" is safe together with early
//	returns out of the guarded block.
//
// Usage Example:
//
//	var lock elision.SpinLock
//
//	func transfer(from, to *account, amount int) {
//	    scope := elision.Enter(&lock)
//	    defer scope.Exit()
//
//	    from.balance -= amount
//	    to.balance += amount
//
//	    scope.OnCommit(func() { notifyAudit(from, to, amount) })
//	}
//
// Thread Safety:
//
//	A Scope belongs to the goroutine that entered it and must not be
//	shared. The fallback lock is the only state shared between scopes
//	racing on the same critical section. Scopes never touch shared
//	counters between transaction begin and commit - stats are recorded
//	only on abort paths and after Exit - since any shared write inside
//	the transaction would make concurrent elisions conflict with each
//	other and defeat the point.
//
// Limitations:
//
//	Scopes are non-reentrant and do not nest. There is no cancellation
//	or timeout; the retry bound plus the blocking lock acquisition are
//	the only termination mechanism, which guarantees progress via the
//	fallback path.
package elision
