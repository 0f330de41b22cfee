//go:build !amd64

package htm

// Supported reports whether the host CPU implements RTM. Only amd64 is
// wired up, all other architectures fall back to lock-only execution.
func Supported() bool { return false }

// RTM returns the Disabled provider on architectures without an RTM
// implementation, so every scope entry takes the lock path.
func RTM() Provider { return Disabled() }
