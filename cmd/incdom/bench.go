package main

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vango-dev/incdom/internal/errors"
	"github.com/vango-dev/incdom/pkg/dom"
	"github.com/vango-dev/incdom/pkg/idom"
	"github.com/vango-dev/incdom/pkg/observe"
)

type benchOptions struct {
	Size       int
	Iterations int
	Mode       string
	Seed       uint64
	Trace      bool
}

type benchReport struct {
	Patches   int
	Elapsed   time.Duration
	Stats     idom.Stats
	Mutations dom.Mutations
	Counters  map[string]float64
}

func benchCmd(a *app) *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure keyed-list reconciliation throughput",
		Long: `Bench reconciles a keyed list repeatedly, reordering it before every
patch, and reports throughput together with the structural changes the
engine made.

Modes:
  shuffle  random permutation (seeded)
  reverse  reverse the list
  rotate   move the first item to the end

Examples:
  incdom bench
  incdom bench --size=5000 --iterations=50 --mode=reverse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("size") {
				opts.Size = a.cfg.Bench.ListSize
			}
			if !cmd.Flags().Changed("iterations") {
				opts.Iterations = a.cfg.Bench.Iterations
			}
			if opts.Size < 1 || opts.Iterations < 1 {
				return errors.New("E040").
					WithDetail("--size and --iterations must be at least 1")
			}

			report, err := runBench(opts, a.cfg.Metrics.Namespace)
			if err != nil {
				return err
			}
			printReport(a.ui, opts, report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Size, "size", "n", 0, "Number of keyed items (default from incdom.json)")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "i", 0, "Number of patches (default from incdom.json)")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", "shuffle", "Reorder mode: shuffle, reverse, rotate")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Seed for shuffle mode")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Record a span per patch with the global OpenTelemetry provider")

	return cmd
}

func reorderFunc(mode string, seed uint64) (func([]int), error) {
	switch mode {
	case "shuffle":
		rng := rand.New(rand.NewPCG(seed, seed))
		return func(order []int) {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}, nil
	case "reverse":
		return slices.Reverse[[]int], nil
	case "rotate":
		return func(order []int) {
			if len(order) > 1 {
				first := order[0]
				copy(order, order[1:])
				order[len(order)-1] = first
			}
		}, nil
	default:
		return nil, errors.New("E040").
			WithDetailf("--mode %q is not supported", mode).
			WithSuggestion("Use shuffle, reverse or rotate")
	}
}

// renderList declares one keyed li with a text child per entry of data.
func renderList(e *idom.Engine, data any) error {
	for _, k := range data.([]int) {
		key := strconv.Itoa(k)
		e.OpenElement("li", idom.Key(key))
		e.Text().(*dom.Node).SetData(key)
		e.Close()
	}
	return nil
}

func runBench(opts benchOptions, namespace string) (*benchReport, error) {
	reorder, err := reorderFunc(opts.Mode, opts.Seed)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics := observe.NewMetrics(observe.WithRegistry(registry), observe.WithNamespace(namespace))
	engineOpts := []idom.Option{idom.WithObserver(metrics)}
	if opts.Trace {
		engineOpts = append(engineOpts, idom.WithObserver(observe.NewTracer()))
	}
	e := idom.New(engineOpts...)

	doc := dom.NewDocument()
	root := doc.NewElement("ul")
	order := make([]int, opts.Size)
	for i := range order {
		order[i] = i
	}
	if _, err := e.PatchInner(root, renderList, order); err != nil {
		return nil, err
	}
	doc.ResetMutations()

	report := &benchReport{Counters: make(map[string]float64)}
	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		reorder(order)
		if _, err := e.PatchInner(root, renderList, order); err != nil {
			return nil, err
		}
		report.Patches++
	}
	report.Elapsed = time.Since(start)
	report.Mutations = doc.Mutations()

	families, err := registry.Gather()
	if err != nil {
		return nil, err
	}
	prefix := namespace + "_"
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				report.Counters[strings.TrimPrefix(mf.GetName(), prefix)] += c.GetValue()
			}
		}
	}

	// Counters include the initial build, which is not part of the timed run.
	report.Stats = idom.Stats{
		Created:  int(report.Counters["nodes_created_total"]) - 2*opts.Size,
		Deleted:  int(report.Counters["nodes_deleted_total"]),
		Moved:    int(report.Counters["nodes_moved_total"]),
		Duration: report.Elapsed,
	}
	return report, nil
}

func printReport(u *ui, opts benchOptions, r *benchReport) {
	perPatch := r.Elapsed / time.Duration(max(r.Patches, 1))
	rate := float64(r.Patches) / r.Elapsed.Seconds()

	u.success("%d patches of %d keyed items (%s)", r.Patches, opts.Size, opts.Mode)
	u.info("elapsed     %s", r.Elapsed.Round(time.Microsecond))
	u.info("per patch   %s", perPatch.Round(time.Microsecond))
	u.info("throughput  %s patches/s", fmt.Sprintf("%.1f", rate))
	u.info("engine      created %d  deleted %d  moved %d", r.Stats.Created, r.Stats.Deleted, r.Stats.Moved)
	u.info("host        inserted %d  moved %d  removed %d", r.Mutations.Inserted, r.Mutations.Moved, r.Mutations.Removed)
	if r.Stats.Created > 0 || r.Stats.Deleted > 0 {
		u.warn("reordering should not create or delete nodes")
	}
}
