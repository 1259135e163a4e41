package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vango-dev/incdom/internal/config"
	"github.com/vango-dev/incdom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬┌┐┌┌─┐┌┬┐┌─┐┌┬┐
  │││││   │││ ││││
  ┴┘└┘└─┘─┴┘└─┘┴ ┴
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(stderr, err)
		return 1
	}
	return 0
}

// app is the state shared by every command once the root's pre-run hook has
// loaded configuration.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	ui     *ui
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		logLevel   string
		noColor    bool
	)
	a := &app{ui: &ui{out: stdout, err: stderr}}

	rootCmd := &cobra.Command{
		Use:   "incdom",
		Short: "Incremental DOM reconciliation toolkit",
		Long: `incdom drives an incremental tree reconciliation engine.

Render functions declare the desired children of a node and the engine
patches the existing tree in place, reusing nodes by kind and key.

  • Replay declarative YAML scenarios pass by pass
  • Inspect a replay live over HTTP and WebSocket
  • Measure keyed-list reconciliation throughput`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !useColor(stdout, noColor) {
				errors.DisableColors()
			} else {
				errors.EnableColors()
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, _ := config.ParseLevel(cfg.LogLevel)
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default: searched from the working directory)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		replayCmd(a),
		serveCmd(a),
		benchCmd(a),
		versionCmd(a),
	)

	return rootCmd
}

// loadConfig reads path when given, otherwise the nearest incdom.json above
// the working directory, falling back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.New(), nil
	}
	root, err := config.FindRoot(wd)
	if err != nil {
		return config.New(), nil
	}
	return config.Load(root)
}

// useColor reports whether w is a terminal that should receive ANSI colors.
func useColor(w io.Writer, disabled bool) bool {
	if disabled || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// ui writes human-facing status lines.
type ui struct {
	out io.Writer
	err io.Writer
}

// printBanner prints the ASCII art banner.
func (u *ui) printBanner() {
	fmt.Fprint(u.out, cyan(banner))
}

// success prints a success message.
func (u *ui) success(format string, args ...any) {
	fmt.Fprintf(u.out, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func (u *ui) info(format string, args ...any) {
	fmt.Fprintf(u.out, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (u *ui) warn(format string, args ...any) {
	fmt.Fprintf(u.out, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func (u *ui) errorMsg(format string, args ...any) {
	fmt.Fprintf(u.err, "%s %s\n", red("✗"), fmt.Sprintf(format, args...))
}
