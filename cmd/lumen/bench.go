package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/pkg/reactive"
)

// benchProfile describes one synthetic-graph benchmark shape.
type benchProfile struct {
	name   string
	depth  int // chain: signal -> computed -> ... -> effect
	width  int // fanout: one signal feeding N effects
	writes int
}

var benchProfiles = map[string]benchProfile{
	"fast": {
		name:   "fast",
		depth:  50,
		width:  100,
		writes: 1_000,
	},
	"standard": {
		name:   "standard",
		depth:  200,
		width:  500,
		writes: 10_000,
	},
	"stress": {
		name:   "stress",
		depth:  1_000,
		width:  2_000,
		writes: 50_000,
	},
}

func benchCmd() *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run propagation benchmarks over synthetic graphs",
		Long: `Run propagation benchmarks over synthetic reactive graphs.

Two shapes are measured: a deep chain of computeds terminated by one
effect, and a wide fanout of effects on a single signal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := benchProfiles[profileName]
			if !ok {
				return fmt.Errorf("unknown profile %q (fast, standard, stress)", profileName)
			}
			runBench(profile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "standard", "Benchmark profile (fast, standard, stress)")

	return cmd
}

func runBench(p benchProfile) {
	fmt.Printf("profile: %s (depth=%d width=%d writes=%d)\n\n", p.name, p.depth, p.width, p.writes)

	chain := benchChain(p.depth, p.writes)
	report("deep chain", p.writes, chain)

	fanout := benchFanout(p.width, p.writes)
	report("wide fanout", p.writes, fanout)
}

// benchChain measures writes through a chain of computeds ending in one
// effect: src -> c1 -> c2 -> ... -> cN -> effect.
func benchChain(depth, writes int) time.Duration {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	src := reactive.NewSignal(0)

	var tail interface{ Get() int } = src
	for i := 0; i < depth; i++ {
		prev := tail
		tail = reactive.NewComputed(func() int {
			return prev.Get() + 1
		})
	}

	var sink int
	reactive.WithOwner(owner, func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			sink = tail.Get()
			return nil
		}, reactive.EffectName("bench-chain"))
	})

	start := time.Now()
	for i := 1; i <= writes; i++ {
		src.Set(i)
	}
	elapsed := time.Since(start)

	if sink != writes+depth {
		fmt.Printf("  warning: chain sink=%d, expected %d\n", sink, writes+depth)
	}
	return elapsed
}

// benchFanout measures writes to one signal observed by width effects.
func benchFanout(width, writes int) time.Duration {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	src := reactive.NewSignal(0)

	var sink int
	reactive.WithOwner(owner, func() {
		for i := 0; i < width; i++ {
			reactive.CreateEffect(func() reactive.Cleanup {
				sink = src.Get()
				return nil
			}, reactive.EffectName("bench-fanout"))
		}
	})

	start := time.Now()
	for i := 1; i <= writes; i++ {
		src.Set(i)
	}
	elapsed := time.Since(start)

	if sink != writes {
		fmt.Printf("  warning: fanout sink=%d, expected %d\n", sink, writes)
	}
	return elapsed
}

func report(name string, writes int, elapsed time.Duration) {
	perWrite := elapsed / time.Duration(writes)
	fmt.Printf("  %-12s %10s total  %10s/write  %12.0f writes/s\n",
		name, elapsed.Round(time.Microsecond), perWrite, float64(writes)/elapsed.Seconds())
}
