package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/pkg/inspect"
	"github.com/lumen-dev/lumen/pkg/observe"
	"github.com/lumen-dev/lumen/pkg/reactive"
)

func inspectCmd() *cobra.Command {
	var (
		addr string
		demo bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve the live reactive-graph inspector",
		Long: `Serve the live reactive-graph inspector.

Exposes a WebSocket event stream at /ws and Prometheus metrics at
/metrics. With --demo, a small reactive graph is driven continuously so
the stream has traffic to show.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins := inspect.New()
			metrics := observe.NewMetrics()
			reactive.SetInstrument(reactive.MultiInstrument(ins, metrics))

			if demo {
				go runDemoGraph()
			}

			fmt.Printf("inspector listening on %s (ws: /ws, metrics: /metrics)\n", addr)
			return http.ListenAndServe(addr, ins.Handler())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:7911", "Listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "Drive a demo graph so the stream has traffic")

	return cmd
}

// runDemoGraph ticks a tiny signal/computed/effect graph forever.
func runDemoGraph() {
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	tick := reactive.NewSignal(0)
	squared := reactive.NewComputed(func() int {
		n := tick.Get()
		return n * n
	})

	reactive.WithOwner(owner, func() {
		reactive.CreateEffect(func() reactive.Cleanup {
			_ = squared.Get()
			return nil
		}, reactive.EffectName("demo"))
	})

	for {
		time.Sleep(time.Second)
		tick.Update(func(n int) int { return n + 1 })
	}
}
