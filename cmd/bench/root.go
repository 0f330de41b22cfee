package bench

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/elide/cmd/util"
	"github.com/ValentinKolb/elide/lib/elision"
	"github.com/ValentinKolb/elide/lib/htm"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCmd represents the bench command
	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Micro-benchmark lock elision against plain locking",
		Long: `Runs a set of micro-benchmarks that contend on a shared counter and
compares plain locks (sync.Mutex, spinlock) with elided critical
sections. On hosts without RTM support the elided cases degrade to the
lock path; the printed mode counters show which path was taken.`,
		PreRunE: processConfig,
		RunE:    run,
	}

	benchThreads int
	benchSkip    = make([]string, 0)
)

// every 64th operation is timed, so the latency percentiles do not
// distort the ns/op measurement
const sampleInterval = 64

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitEnv)

	// add flags
	key := "threads"
	BenchCmd.Flags().Int(key, runtime.NumCPU(), util.WrapString("Number of goroutines contending on the critical section"))
	key = "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. mutex,elide-spin)"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "log-level"
	BenchCmd.Flags().String(key, "info", util.WrapString("Log level (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchThreads = viper.GetInt("threads")
	if skip := viper.GetString("skip"); skip != "" {
		benchSkip = strings.Split(skip, ",")
	}

	util.InitLoggers(viper.GetString("log-level"))

	return nil
}

// --------------------------------------------------------------------------
// Benchmark cases
// --------------------------------------------------------------------------

// benchCase is one contended critical-section variant. op performs a
// single entry; stats is set for the elided variants so their mode
// counters can be reported.
type benchCase struct {
	name  string
	op    func()
	stats *elision.Stats
}

func cases() []benchCase {
	var (
		mu        sync.Mutex
		muCounter int

		spin        elision.SpinLock
		spinCounter int

		elideSpinLock elision.SpinLock
		elideSpinCnt  int
		elideSpinSt   = elision.StatsFor("bench/elide-spin")

		elideTicketLock elision.TicketLock
		elideTicketCnt  int
		elideTicketSt   = elision.StatsFor("bench/elide-ticket")

		fallbackLock elision.SpinLock
		fallbackCnt  int
		fallbackSt   = elision.StatsFor("bench/elide-fallback")
	)

	return []benchCase{
		{
			name: "mutex",
			op: func() {
				mu.Lock()
				muCounter++
				mu.Unlock()
			},
		},
		{
			name: "spinlock",
			op: func() {
				spin.Lock()
				spinCounter++
				spin.Unlock()
			},
		},
		{
			name:  "elide-spin",
			stats: elideSpinSt,
			op: func() {
				s := elision.Enter(&elideSpinLock, elision.WithStats(elideSpinSt))
				elideSpinCnt++
				s.Exit()
			},
		},
		{
			name:  "elide-ticket",
			stats: elideTicketSt,
			op: func() {
				s := elision.Enter(&elideTicketLock, elision.WithStats(elideTicketSt))
				elideTicketCnt++
				s.Exit()
			},
		},
		{
			// forced onto the lock path, the cost of the elision wrapper itself
			name:  "elide-fallback",
			stats: fallbackSt,
			op: func() {
				s := elision.Enter(&fallbackLock,
					elision.WithProvider(htm.Disabled()),
					elision.WithStats(fallbackSt))
				fallbackCnt++
				s.Exit()
			},
		},
	}
}

// --------------------------------------------------------------------------
// Runner
// --------------------------------------------------------------------------

func run(_ *cobra.Command, _ []string) error {
	fmt.Println("elide bench - lock elision vs plain locking")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("  %-22s: %t\n", "RTM supported", htm.Supported())
	fmt.Printf("  %-22s: %d\n", "Threads", benchThreads)
	fmt.Printf("  %-22s: %d\n", "GOMAXPROCS", runtime.GOMAXPROCS(0))
	fmt.Println()

	results := make(map[string]testing.BenchmarkResult)
	timers := make(map[string]gometrics.Timer)

	for _, c := range cases() {
		if shouldSkip(c.name) {
			fmt.Printf("%-16sskipped\n", c.name)
			continue
		}

		timer := gometrics.NewTimer()
		op := c.op

		result := testing.Benchmark(func(b *testing.B) {
			b.SetParallelism(benchThreads)
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					if counter%sampleInterval == 0 {
						start := time.Now()
						op()
						timer.UpdateSince(start)
					} else {
						op()
					}
					counter++
				}
			})
		})

		results[c.name] = result
		timers[c.name] = timer
		printResult(c.name, result, timer)

		if c.stats != nil {
			fmt.Printf("%-16selided=%d locked=%d contention-aborts=%d hardware-aborts=%d\n",
				"", c.stats.Elided.Get(), c.stats.Locked.Get(),
				c.stats.ContentionAborts.Get(), c.stats.HardwareAborts.Get())
		}
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, timers); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range benchSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, timer gometrics.Timer) {
	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})

	fmt.Printf("%-16s%8.0f ns/op  %12.0f ops/sec  p50=%-10s p95=%-10s p99=%s\n",
		test, nsPerOp, opsPerSec,
		time.Duration(int64(ps[0])), time.Duration(int64(ps[1])), time.Duration(int64(ps[2])))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, timers map[string]gometrics.Timer) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec",
		"P50Ns", "P95Ns", "P99Ns",
		"Threads", "RTMSupported",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		nsPerOp := math.Max(float64(result.NsPerOp()), 1)
		opsPerSec := 1.0 / (nsPerOp / 1e9)
		ps := timers[test].Percentiles([]float64{0.5, 0.95, 0.99})

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(int64(nsPerOp)).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strconv.Itoa(benchThreads),
			strconv.FormatBool(htm.Supported()),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
