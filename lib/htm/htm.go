package htm

// --------------------------------------------------------------------------
// Provider interface
// --------------------------------------------------------------------------

// Provider exposes the hardware transaction primitives consumed by the
// elision package. Implementations must be safe for concurrent use.
type Provider interface {
	// Begin attempts to open a hardware transaction. It returns
	// StatusStarted if the transaction is now executing. Any other value
	// is an abort status: on real hardware an abort anywhere between
	// Begin and Commit transfers control back to the Begin call site,
	// which then returns the abort status.
	Begin() uint32

	// Commit closes the transaction opened by the matching Begin, making
	// its effects visible atomically. Calling Commit without an open
	// transaction is a programming error.
	Commit()

	// AbortContention explicitly aborts the open transaction with
	// CodeContention. On real hardware this call does not return; control
	// reappears at the Begin call site with the abort status. Software
	// providers that cannot unwind return normally instead, and callers
	// must treat that return as the contention abort it stands for.
	AbortContention()
}

// --------------------------------------------------------------------------
// Status word (Intel RTM EAX layout)
// --------------------------------------------------------------------------

// StatusStarted is returned by Begin while the transaction is executing.
const StatusStarted = ^uint32(0)

// Abort status bits, see the Intel SDM chapter on RTM.
const (
	AbortExplicit uint32 = 1 << 0 // XABORT was executed, code in bits 31:24
	AbortRetry    uint32 = 1 << 1 // retrying the transaction may succeed
	AbortConflict uint32 = 1 << 2 // memory conflict with another thread
	AbortCapacity uint32 = 1 << 3 // read/write set exceeded hardware capacity
	AbortDebug    uint32 = 1 << 4 // debug breakpoint was hit
	AbortNested   uint32 = 1 << 5 // abort inside a nested transaction
)

// Abort codes 0xF0..0xFF are reserved for this library. Transaction bodies
// issuing their own explicit aborts must stay in 0x00..0xEF.
const (
	// CodeContention signals that the fallback lock was observed as held
	// from inside a transaction.
	CodeContention uint8 = 0xFF

	// CodeReservedMin is the lowest reserved abort code.
	CodeReservedMin uint8 = 0xF0
)

// Started reports whether status describes an open, executing transaction.
func Started(status uint32) bool {
	return status == StatusStarted
}

// IsExplicit reports whether status describes an explicit (XABORT) abort.
func IsExplicit(status uint32) bool {
	return !Started(status) && status&AbortExplicit != 0
}

// MayRetry reports whether the hardware hinted that retrying the aborted
// transaction is likely to succeed.
func MayRetry(status uint32) bool {
	return !Started(status) && status&AbortRetry != 0
}

// AbortCode extracts the caller-chosen code of an explicit abort from
// bits 31:24 of the status word. Only meaningful if IsExplicit(status).
func AbortCode(status uint32) uint8 {
	return uint8(status >> 24)
}

// IsContentionAbort reports whether status is the reserved explicit abort
// raised when the fallback lock was observed as held. Explicit aborts with
// any other code are classified as ordinary aborts.
func IsContentionAbort(status uint32) bool {
	return IsExplicit(status) && AbortCode(status) == CodeContention
}

// ExplicitStatus synthesizes the status word of an explicit abort with the
// given code. Used by software providers and tests to stand in for a real
// XABORT.
func ExplicitStatus(code uint8) uint32 {
	return AbortExplicit | uint32(code)<<24
}

// --------------------------------------------------------------------------
// Disabled provider
// --------------------------------------------------------------------------

// disabledProvider reports every Begin as a plain abort without a retry
// hint, driving callers straight to their lock fallback.
type disabledProvider struct{}

func (disabledProvider) Begin() uint32 { return 0 }

func (disabledProvider) Commit() {
	panic("htm: Commit without an open transaction")
}

func (disabledProvider) AbortContention() {
	panic("htm: AbortContention without an open transaction")
}

// Disabled returns a provider that never starts a transaction, so every
// scope entry takes the lock path. This is the degraded mode for hosts
// without RTM and the test hook for forcing fallback execution.
func Disabled() Provider { return disabledProvider{} }

// Auto returns the RTM provider when the host CPU supports it and the
// Disabled provider otherwise.
func Auto() Provider {
	if Supported() {
		return RTM()
	}
	return Disabled()
}
