package browser

import (
	"errors"
	"runtime"
	"testing"
)

func TestCandidates(t *testing.T) {
	tests := map[string]string{
		"windows": "rundll32",
		"darwin":  "open",
		"linux":   "xdg-open",
		"freebsd": "xdg-open",
	}
	for goos, want := range tests {
		got := candidates(goos, "http://localhost:8080")
		if got[0][0] != want {
			t.Errorf("%s: first launcher = %q, want %q", goos, got[0][0], want)
		}
		if last := got[0][len(got[0])-1]; last != "http://localhost:8080" {
			t.Errorf("%s: url should be the last argument, got %q", goos, last)
		}
	}
}

func TestOpenFallsBack(t *testing.T) {
	orig := start
	t.Cleanup(func() { start = orig })

	var tried []string
	start = func(name string, args ...string) error {
		tried = append(tried, name)
		if len(tried) < 2 {
			return errors.New("not found")
		}
		return nil
	}

	err := Open("http://localhost:8080")
	if len(candidates(runtime.GOOS, "")) < 2 {
		if err == nil {
			t.Fatal("expected an error with a single failing launcher")
		}
		return
	}
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(tried) != 2 {
		t.Errorf("tried %v, want two launchers", tried)
	}
}

func TestOpenReportsFirstError(t *testing.T) {
	orig := start
	t.Cleanup(func() { start = orig })

	first := errors.New("first")
	calls := 0
	start = func(string, ...string) error {
		calls++
		if calls == 1 {
			return first
		}
		return errors.New("later")
	}

	if err := Open("http://localhost:8080"); !errors.Is(err, first) {
		t.Errorf("Open error = %v, want the first launcher's error", err)
	}
}
