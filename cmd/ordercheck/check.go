package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

func newCheckCmd(opts *options) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Print the summary and the results table for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, idx, err := opts.classifyFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeSummary(out, filepath.Base(args[0]), idx.Len(), core.Summarize(records))

			m := core.ParseFilterMode(mode)
			fmt.Fprintf(out, "\nShowing: %s\n\n", m.Label())
			return writeTable(out, core.FilterForDisplay(records, m))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(core.ModeAll), "filter: all, not-available, other-errors or available")
	return cmd
}

func writeSummary(w io.Writer, file string, codes int, s core.Summary) {
	f := s.Formatted()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File:\t%s\n", file)
	fmt.Fprintf(tw, "Reference codes:\t%d\n", codes)
	fmt.Fprintf(tw, "Total:\t%s\n", f.Total)
	fmt.Fprintf(tw, "Accepted:\t%s\n", f.Accepted)
	fmt.Fprintf(tw, "Rejected:\t%s\n", f.Rejected)
	fmt.Fprintf(tw, "Other errors:\t%s\n", f.OtherErrors)
	tw.Flush()
}

func writeTable(w io.Writer, records []core.ClassifiedRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records match this filter.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(core.DisplayHeaders, "\t"))
	for i, r := range records {
		fmt.Fprintln(tw, strings.Join(core.Display(i, r).Cells(), "\t"))
	}
	return tw.Flush()
}
