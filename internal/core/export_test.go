package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToExportLines(t *testing.T) {
	batch := ClassifyAll([]string{
		"A1,1,111,AR,OK",
		"A2,2,999,IR,Not found",
		"A3,3,222,XX,Some error",
	}, testIndex("111", "222"))

	t.Run("all records", func(t *testing.T) {
		want := []string{
			"A1,1,111,AR,OK",
			"A2,2,999,IR,Item Template not found",
			"A3,3,222,XX,Some error",
		}
		if diff := cmp.Diff(want, ToExportLines(batch, false)); diff != "" {
			t.Errorf("ToExportLines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("excluding other errors", func(t *testing.T) {
		want := []string{
			"A1,1,111,AR,OK",
			"A2,2,999,IR,Item Template not found",
		}
		if diff := cmp.Diff(want, ToExportLines(batch, true)); diff != "" {
			t.Errorf("ToExportLines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("not available overrides any response", func(t *testing.T) {
		r := Classify("B1,1,555,AR,Shipped", testIndex())
		want := []string{"B1,1,555,IR,Item Template not found"}
		if diff := cmp.Diff(want, ToExportLines([]ClassifiedRecord{r}, false)); diff != "" {
			t.Errorf("ToExportLines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lines reparse to the same record", func(t *testing.T) {
		for i, line := range ToExportLines(batch, false) {
			p := ParseRecord(line)
			if p.OrderRef != batch[i].OrderRef || p.ISBN != batch[i].ISBN {
				t.Errorf("line %d %q does not round trip", i, line)
			}
		}
	})

	if got := ExportText([]string{"a", "b"}); got != "a\nb" {
		t.Errorf("ExportText = %q, want no trailing newline", got)
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		original string
		filtered bool
		want     string
	}{
		{"orders.ppr", false, "orders.ppr"},
		{"orders.ppr", true, "orders_filtered.ppr"},
		{"orders", true, "orders_filtered"},
		{`C:\Users\me\orders.csv`, false, "orders.csv"},
		{"/tmp/in/orders.csv", true, "orders_filtered.csv"},
		{"", false, "results.csv"},
		{"", true, "results_filtered.csv"},
	}

	for _, tt := range tests {
		if got := ExportFileName(tt.original, tt.filtered); got != tt.want {
			t.Errorf("ExportFileName(%q, %v) = %q, want %q", tt.original, tt.filtered, got, tt.want)
		}
	}
}

func TestSaveExport(t *testing.T) {
	t.Run("writes to path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		got, err := SaveExport(path, t.TempDir(), "A1,1,111,AR,OK")
		if err != nil {
			t.Fatalf("SaveExport: %v", err)
		}
		if got != path {
			t.Errorf("written to %q, want %q", got, path)
		}
		assertFile(t, got, "A1,1,111,AR,OK")
	})

	t.Run("falls back when path is not writable", func(t *testing.T) {
		fallbackDir := t.TempDir()
		path := filepath.Join(t.TempDir(), "missing", "out.csv")

		got, err := SaveExport(path, fallbackDir, "x")
		if err != nil {
			t.Fatalf("SaveExport: %v", err)
		}
		if want := filepath.Join(fallbackDir, "out.csv"); got != want {
			t.Errorf("written to %q, want %q", got, want)
		}
		assertFile(t, got, "x")
	})

	t.Run("fails when both locations fail", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, "missing", "out.csv")
		fallbackDir := filepath.Join(root, "also-missing")

		if _, err := SaveExport(path, fallbackDir, "x"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s contains %q, want %q", path, data, want)
	}
}
