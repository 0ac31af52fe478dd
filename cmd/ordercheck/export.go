package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

var errOverwriteInput = errors.New("export would overwrite the input file; choose another path with -o")

func newExportCmd(opts *options) *cobra.Command {
	var (
		exclude bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the checked file in upload format",
		Long: `Writes every record back in upload format. Not Available records get the
IR response and the "Item Template not found" message.

Without -o the export is written to the current directory under the input's
name ("_filtered" is added with --exclude-other-errors). Use -o - for stdout.
If the path cannot be written the file goes to the system temp directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			records, _, err := opts.classifyFile(cmd.Context(), input)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return core.ErrNoResults
			}

			lines := core.ToExportLines(records, exclude)
			content := core.ExportText(lines)

			if output == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), content)
				return err
			}

			path := output
			if path == "" {
				path = core.ExportFileName(filepath.Base(input), exclude)
			}
			if samePath(path, input) {
				return errOverwriteInput
			}

			written, err := core.SaveExport(path, os.TempDir(), content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d lines to %s\n", len(lines), written)
			return nil
		},
	}

	cmd.Flags().BoolVar(&exclude, "exclude-other-errors", false, "leave out records flagged as other errors")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, or - for stdout")
	return cmd
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
