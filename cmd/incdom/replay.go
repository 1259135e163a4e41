package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/vango-dev/incdom/internal/errors"
	"github.com/vango-dev/incdom/internal/scenario"
)

func replayCmd(a *app) *cobra.Command {
	var (
		showDiff bool
		debug    bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Apply every pass of a scenario and report the changes",
		Long: `Replay applies the passes of a YAML scenario to a fresh host tree and
prints, for each pass, the structural changes the engine made and the
resulting tree.

Examples:
  incdom replay reorder.yaml
  incdom replay reorder.yaml --diff
  incdom replay reorder.yaml --format=json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return errors.New("E040").
					WithDetailf("--format %q is not supported", format).
					WithSuggestion(`Use --format=text or --format=json`)
			}

			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if debug || a.cfg.Debug {
				sc.Debug = true
			}

			results, err := scenario.Replay(sc, scenario.WithLogger(a.logger))
			if format == "json" {
				if encErr := writeResultsJSON(cmd.OutOrStdout(), results); encErr != nil {
					return encErr
				}
				return err
			}

			printResults(a.ui, sc, results, showDiff)
			if err != nil {
				a.ui.errorMsg("stopped after %d of %d passes", len(results), len(sc.Passes))
				return err
			}
			a.ui.success("%d passes applied", len(results))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Print a line diff of the tree between passes")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable usage assertions regardless of the scenario setting")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")

	return cmd
}

type resultJSON struct {
	Index     int    `json:"index"`
	Pass      string `json:"pass"`
	Strategy  string `json:"strategy"`
	Created   int    `json:"created"`
	Deleted   int    `json:"deleted"`
	Moved     int    `json:"moved"`
	Inserted  int    `json:"inserted"`
	Removed   int    `json:"removed"`
	HostMoved int    `json:"hostMoved"`
	HTML      string `json:"html"`
}

func writeResultsJSON(w io.Writer, results []scenario.Result) error {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, resultJSON{
			Index:     r.Index,
			Pass:      r.Pass,
			Strategy:  r.Strategy,
			Created:   r.Stats.Created,
			Deleted:   r.Stats.Deleted,
			Moved:     r.Stats.Moved,
			Inserted:  r.Mutations.Inserted,
			Removed:   r.Mutations.Removed,
			HostMoved: r.Mutations.Moved,
			HTML:      r.HTML,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printResults(u *ui, sc *scenario.Scenario, results []scenario.Result, showDiff bool) {
	fmt.Fprintf(u.out, "%s %s\n\n", bold("scenario"), sc.Name)

	prev := ""
	for _, r := range results {
		fmt.Fprintf(u.out, "%s %s %s\n", cyan(fmt.Sprintf("[%d]", r.Index+1)), bold(r.Pass), "("+r.Strategy+")")
		u.info("created %d  deleted %d  moved %d  in %s",
			r.Stats.Created, r.Stats.Deleted, r.Stats.Moved, r.Stats.Duration)
		u.info("host: inserted %d  moved %d  removed %d  text %d",
			r.Mutations.Inserted, r.Mutations.Moved, r.Mutations.Removed, r.Mutations.TextUpdates)
		if r.Mutations.FocusDetached > 0 {
			u.warn("focus detached %d times", r.Mutations.FocusDetached)
		}

		if showDiff && r.Index > 0 {
			writeDiff(u.out, prev, r.Pretty)
		} else {
			writeIndented(u.out, r.Pretty)
		}
		fmt.Fprintln(u.out)
		prev = r.Pretty
	}
}

// writeDiff prints a line-level diff between two renderings.
func writeDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	if before == after {
		fmt.Fprintf(w, "    %s\n", "(unchanged)")
		return
	}
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintf(w, "  %s\n", green("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintf(w, "  %s\n", red("- "+line))
			default:
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

func writeIndented(w io.Writer, text string) {
	for _, line := range splitLines(text) {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
