package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ordercheck/internal/config"
	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/reference"
)

// options are the flags shared by every subcommand.
type options struct {
	reference string
	query     string
	logLevel  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "ordercheck",
		Short:         "Check order response files against the reference item list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.reference, "reference", "", "reference source: file, http(s) URL or postgres URL (default $REFERENCE_SOURCE)")
	flags.StringVar(&opts.query, "query", "", "single-column query for postgres sources (default $REFERENCE_QUERY)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")

	root.AddCommand(newCheckCmd(opts), newExportCmd(opts))
	return root
}

// load reads the environment configuration and lets explicit flags override it.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("reference") {
		cfg.Reference.Source = o.reference
	}
	if flags.Changed("query") {
		cfg.Reference.Query = o.query
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	o.cfg = cfg
	return nil
}

// classifyFile loads the reference index and classifies every line of path.
// A failed reference load is logged and leaves every record Not Available.
func (o *options) classifyFile(ctx context.Context, path string) ([]core.ClassifiedRecord, *reference.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := core.ReadLines(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, o.cfg.Reference.Timeout)
	defer cancel()
	idx := reference.Load(loadCtx, reference.NewSource(o.cfg.Reference.Source, o.cfg.Reference.Query))

	return core.ClassifyAll(lines, idx), idx, nil
}

// reportError prints a failed command's error. Known failures get their user
// message, code and suggested action; anything else is printed as returned.
func reportError(w io.Writer, err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	userErr := core.NewUserError(err)
	slog.Debug("command failed", "error", userErr.Unwrap(), "code", userErr.User.Code)
	fmt.Fprintf(w, "Error: %s (%s)\n", userErr.Error(), userErr.User.Code)
	if userErr.User.Action != "" {
		fmt.Fprintln(w, userErr.User.Action)
	}
}
