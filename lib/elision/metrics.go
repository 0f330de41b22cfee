package elision

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// Stats tracks entry modes and abort causes for one named critical
// section. All counters are exported through the VictoriaMetrics default
// registry under the elide_* namespace.
type Stats struct {
	// Elided counts entries that committed a hardware transaction.
	Elided *metrics.Counter

	// Locked counts entries that ran under the fallback lock.
	Locked *metrics.Counter

	// ContentionAborts counts explicit aborts raised because the
	// fallback lock was observed as held.
	ContentionAborts *metrics.Counter

	// HardwareAborts counts all other transaction aborts (conflicting
	// access, capacity, preemption, user aborts).
	HardwareAborts *metrics.Counter
}

// statsRegistry deduplicates Stats per section name so that concurrent
// StatsFor calls share counters.
var statsRegistry = xsync.NewMapOf[string, *Stats]()

// StatsFor returns the stats for the named critical section, creating
// and registering the counters on first use.
//
// Thread-safety: This function is safe for concurrent use; all callers
// passing the same name receive the same *Stats.
func StatsFor(section string) *Stats {
	s, _ := statsRegistry.LoadOrCompute(section, func() *Stats {
		plog.Debugf("registering elision stats for section %q", section)
		return &Stats{
			Elided:           entryCounter(section, "transactional"),
			Locked:           entryCounter(section, "locked"),
			ContentionAborts: abortCounter(section, "contention"),
			HardwareAborts:   abortCounter(section, "hardware"),
		}
	})
	return s
}

func entryCounter(section, mode string) *metrics.Counter {
	return metrics.GetOrCreateCounter(
		fmt.Sprintf(`elide_entries_total{section=%q,mode=%q}`, section, mode))
}

func abortCounter(section, cause string) *metrics.Counter {
	return metrics.GetOrCreateCounter(
		fmt.Sprintf(`elide_aborts_total{section=%q,cause=%q}`, section, cause))
}

// The increment helpers are nil-safe so the scope hot path needs no
// stats check of its own.

func (s *Stats) elidedEntry() {
	if s != nil {
		s.Elided.Inc()
	}
}

func (s *Stats) lockedEntry() {
	if s != nil {
		s.Locked.Inc()
	}
}

func (s *Stats) contentionAbort() {
	if s != nil {
		s.ContentionAborts.Inc()
	}
}

func (s *Stats) hardwareAbort() {
	if s != nil {
		s.HardwareAborts.Inc()
	}
}
