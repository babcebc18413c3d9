package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/erazemk/knjiznica/internal/config"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger installs the default logger. Output is text on a terminal
// and JSON otherwise; logPath, when set, also receives every level.
func setupLogger(stdout, stderr io.Writer, logPath string, isTerminal bool) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	cleanup := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdout = io.MultiWriter(stdout, f)
		stderr = io.MultiWriter(stderr, f)
	}

	newHandler := func(w io.Writer) slog.Handler {
		if isTerminal {
			return slog.NewTextHandler(w, opts)
		}
		return slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(&levelRouter{
		stdout: newHandler(stdout),
		stderr: newHandler(stderr),
	}))
	return cleanup, nil
}

// app carries resolved settings between the root command and subcommands.
type app struct {
	cfg      config.Config
	envFile  string
	closeLog func()
}

func newRootCmd() *cobra.Command {
	a := &app{closeLog: func() {}}

	root := &cobra.Command{
		Use:           "knjiznica",
		Short:         "Library book lending service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("db") {
				cfg.DB, _ = flags.GetString("db")
			}
			if flags.Changed("log") {
				cfg.LogPath, _ = flags.GetString("log")
			}
			if flags.Changed("addr") {
				cfg.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("rate-limit") {
				cfg.RateLimit, _ = flags.GetFloat64("rate-limit")
			}
			if flags.Changed("rate-burst") {
				cfg.RateBurst, _ = flags.GetInt("rate-burst")
			}
			a.cfg = cfg

			closeLog, err := setupLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.LogPath, term.IsTerminal(int(os.Stdout.Fd())))
			if err != nil {
				return err
			}
			a.closeLog = closeLog
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeLog()
		},
	}

	defaults := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env", ".env", "environment file to read")
	pf.StringP("db", "d", defaults.DB, "SQLite database path or postgres:// URL (env "+config.EnvDB+")")
	pf.StringP("log", "l", "", "log file path (env "+config.EnvLog+")")

	root.AddCommand(newServeCmd(a), newInitCmd(a), newMemberCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
