// Package htm provides a thin facade over the hardware transactional
// memory primitives (Intel RTM) consumed by the elision package. It does
// not implement transactional memory itself - it exposes the begin,
// commit and explicit-abort instructions of the host CPU behind a small
// Provider interface, plus helpers for decoding the abort status word.
//
// Core Functionality:
//   - Provider: the begin/commit/explicit-abort capability consumed by
//     elision.Scope
//   - Status word decoding: Started, IsExplicit, MayRetry, AbortCode,
//     IsContentionAbort
//   - Capability probe: Supported reports whether the host CPU offers RTM
//
// Providers:
//
//	Two providers are built in. RTM (amd64 only) executes the real
//	XBEGIN/XEND/XABORT instructions. Disabled reports every Begin as an
//	abort without a retry hint, which makes every caller take its lock
//	fallback immediately - this is both the degraded mode for hosts
//	without RTM and the test hook for forcing the lock path. Auto picks
//	between the two based on the CPUID probe.
//
// Status Word:
//
//	The status word returned by Begin follows the Intel EAX layout: the
//	value StatusStarted (all bits set) means the transaction is open and
//	executing; any other value describes an abort. Bit 0 marks an
//	explicit abort, in which case bits 31:24 carry the caller-chosen
//	abort code. Bit 1 is the hardware hint that retrying may succeed.
//
// Abort Codes:
//
//	Codes 0xF0 through 0xFF are reserved for this library. CodeContention
//	(0xFF) signals that a transactional thread observed the fallback lock
//	as held. Transaction bodies that issue their own explicit aborts must
//	use codes in the range 0x00 through 0xEF; a reserved code issued by a
//	body is undefined behavior.
//
// Thread Safety:
//
//	Providers are stateless and safe for concurrent use. A transaction is
//	always confined to the thread (and therefore goroutine) that began
//	it; the Go scheduler aborts open transactions on preemption, which
//	surfaces as an ordinary hardware abort at the Begin call site.
package htm
