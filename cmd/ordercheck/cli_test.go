package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/ordercheck/internal/core"
)

const scenario = "A1,1,111,AR,OK\nA2,2,999,IR,Not found\nA3,3,222,XX,Some error\n"

// fixture writes a reference file and an upload into a temp dir.
func fixture(t *testing.T) (dir, ref, input string) {
	t.Helper()
	dir = t.TempDir()
	ref = filepath.Join(dir, "data.json")
	input = filepath.Join(dir, "orders.ppr")
	require.NoError(t, os.WriteFile(ref, []byte(`[{"code":"111"},{"code":"222"}]`), 0o644))
	require.NoError(t, os.WriteFile(input, []byte(scenario), 0o644))
	return dir, ref, input
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	_, ref, input := fixture(t)

	out, err := execute(t, "check", "--reference", ref, input)
	require.NoError(t, err)

	assert.Contains(t, out, "File:")
	assert.Contains(t, out, "orders.ppr")
	assert.Regexp(t, `Total:\s+3\n`, out)
	assert.Regexp(t, `Accepted:\s+1\n`, out)
	assert.Regexp(t, `Rejected:\s+1\n`, out)
	assert.Regexp(t, `Other errors:\s+1\n`, out)
	assert.Contains(t, out, "Showing: All")
	assert.Contains(t, out, "Item Template not found")
	assert.Contains(t, out, "Other Error")
}

func TestCheckWithMode(t *testing.T) {
	_, ref, input := fixture(t)

	tests := []struct {
		mode    string
		label   string
		want    []string
		notWant []string
	}{
		{"other-errors", "Other Errors only", []string{"A3"}, []string{"A1 ", "A2 "}},
		{"not-available", "Not Available only", []string{"A2", "Item Template not found"}, []string{"A1 ", "A3 "}},
		{"available", "Available only", []string{"A1"}, []string{"A2 ", "A3 "}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			out, err := execute(t, "check", "--reference", ref, "--mode", tt.mode, input)
			require.NoError(t, err)

			table := out[strings.Index(out, "Showing:"):]
			assert.Contains(t, table, "Showing: "+tt.label)
			for _, s := range tt.want {
				assert.Contains(t, table, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, table, s)
			}
		})
	}
}

func TestCheckWithoutReferenceData(t *testing.T) {
	dir, _, input := fixture(t)

	out, err := execute(t, "check", "--reference", filepath.Join(dir, "missing.json"), input)
	require.NoError(t, err)
	assert.Regexp(t, `Rejected:\s+3\n`, out)
}

func TestExportToPath(t *testing.T) {
	dir, ref, input := fixture(t)
	path := filepath.Join(dir, "out.ppr")

	out, err := execute(t, "export", "--reference", ref, "-o", path, input)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 lines to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A1,1,111,AR,OK\nA2,2,999,IR,Item Template not found\nA3,3,222,XX,Some error", string(data))
}

func TestExportDefaultName(t *testing.T) {
	dir, ref, input := fixture(t)
	t.Chdir(dir)

	_, err := execute(t, "export", "--reference", ref, input)
	assert.ErrorIs(t, err, errOverwriteInput)

	_, err = execute(t, "export", "--reference", ref, "--exclude-other-errors", input)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "orders_filtered.ppr"))
	require.NoError(t, err)
	assert.Equal(t, "A1,1,111,AR,OK\nA2,2,999,IR,Item Template not found", string(data))
}

func TestExportToStdout(t *testing.T) {
	_, ref, input := fixture(t)

	out, err := execute(t, "export", "--reference", ref, "-o", "-", input)
	require.NoError(t, err)
	assert.Equal(t, "A1,1,111,AR,OK\nA2,2,999,IR,Item Template not found\nA3,3,222,XX,Some error\n", out)
}

func TestMissingInput(t *testing.T) {
	_, ref, _ := fixture(t)

	_, err := execute(t, "check", "--reference", ref, filepath.Join(t.TempDir(), "nope.ppr"))
	assert.Error(t, err)
}

func TestExportEmptyFile(t *testing.T) {
	dir, ref, _ := fixture(t)
	empty := filepath.Join(dir, "empty.ppr")
	require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0o644))

	_, err := execute(t, "export", "--reference", ref, "-o", "-", empty)
	require.ErrorIs(t, err, core.ErrNoResults)

	var stderr bytes.Buffer
	reportError(&stderr, err)
	assert.Equal(t, "Error: There are no results yet (RES001)\nUpload a file first\n", stderr.String())
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "known failure shows user message",
			err:  fmt.Errorf("orders.ppr: %w", errors.New("failed to read file: unexpected EOF")),
			want: "Error: The file could not be read (FILE003)\nRe-save the file as plain text and try again\n",
		},
		{
			name: "unknown failure is printed as is",
			err:  errOverwriteInput,
			want: "Error: " + errOverwriteInput.Error() + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
