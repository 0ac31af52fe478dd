// Package browser opens the UI in the user's default browser.
package browser

import (
	"errors"
	"os/exec"
	"runtime"
)

// start launches a command without waiting for it.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// candidates lists the commands to try for goos, most preferred first.
func candidates(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"firefox", url},
			{"google-chrome", url},
			{"chromium-browser", url},
		}
	}
}

// Open tries each launcher for the current platform until one starts.
// The first launcher's error is returned when none do.
func Open(url string) error {
	var first error
	for _, c := range candidates(runtime.GOOS, url) {
		err := start(c[0], c[1:]...)
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		first = errors.New("no browser launcher for " + runtime.GOOS)
	}
	return first
}
