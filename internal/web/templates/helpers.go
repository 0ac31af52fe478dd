// Package templates holds the templ components for the results page.
//
// Edit the .templ files and run `templ generate` to refresh the *_templ.go
// files next to them.
package templates

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/reference"
)

// PageData is everything the full page renders.
type PageData struct {
	View        core.View
	Reference   reference.Status
	MaxFileSize int64
}

// responseCell is the position of Response in DisplayRow.Cells.
const responseCell = 3

func isIRCell(row core.DisplayRow, i int) bool {
	return i == responseCell && row.ResponseIR
}

type summaryCard struct {
	Class string
	Label string
	Value string
}

func dashboardCards(f core.FormattedSummary) []summaryCard {
	return []summaryCard{
		{Class: "total", Label: "Total", Value: f.Total},
		{Class: "available", Label: "Accepted", Value: f.Accepted},
		{Class: "unavailable", Label: "Rejected", Value: f.Rejected},
		{Class: "other-error", Label: "Other Errors", Value: f.OtherErrors},
	}
}

func filterURL(m core.FilterMode) templ.SafeURL {
	return templ.SafeURL("/results?mode=" + url.QueryEscape(string(m)))
}

// formatBytes renders a size in the largest whole unit ("10 MB").
func formatBytes(n int64) string {
	units := []string{"bytes", "KB", "MB", "GB"}
	i := 0
	for n >= 1024 && n%1024 == 0 && i < len(units)-1 {
		n /= 1024
		i++
	}
	return fmt.Sprintf("%d %s", n, units[i])
}
