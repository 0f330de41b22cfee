//go:build amd64

package htm

import (
	"github.com/intel-go/cpuid"
)

// Assembly stubs, see rtm_amd64.s.
func txBegin() uint32
func txEnd()
func txAbortContention()

var hasRTM = cpuid.HasExtendedFeature(cpuid.RTM)

// Supported reports whether the host CPU implements RTM. The probe is done
// once at startup via CPUID.
func Supported() bool { return hasRTM }

// rtmProvider executes the real RTM instructions. Zero-sized and
// stateless, the hardware carries all transaction state.
type rtmProvider struct{}

func (rtmProvider) Begin() uint32    { return txBegin() }
func (rtmProvider) Commit()          { txEnd() }
func (rtmProvider) AbortContention() { txAbortContention() }

// RTM returns the hardware-backed provider. Calling Begin on a host
// without RTM support raises an illegal instruction fault, so callers
// must consult Supported first (or use Auto).
func RTM() Provider { return rtmProvider{} }
