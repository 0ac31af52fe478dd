package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/reference"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func sampleView(mode core.FilterMode) core.View {
	records := core.ClassifyAll(
		[]string{"A1,1,111,AR,OK", "A2,2,999,IR,Not found", "A3,3,222,XX,<b>bad</b>"},
		reference.NewIndex([]reference.Record{{Code: "111"}, {Code: "222"}}),
	)
	return core.View{
		Summary:    core.Summarize(records),
		Mode:       mode,
		FileName:   "orders.ppr",
		Rows:       core.VisibleRows(records, mode),
		HasResults: true,
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		name    string
		data    PageData
		want    []string
		notWant []string
	}{
		{
			name: "empty session",
			data: PageData{Reference: reference.Status{State: reference.StateLoaded}, MaxFileSize: 10 << 20},
			want: []string{
				"<!doctype html>",
				"Up to 10 MB",
				"Upload an order response file to check it.",
			},
			notWant: []string{"alert"},
		},
		{
			name: "failed reference load",
			data: PageData{Reference: reference.Status{State: reference.StateFailed}, MaxFileSize: 1500},
			want: []string{"Reference data unavailable.", "Up to 1500 bytes"},
		},
		{
			name: "pending reference load",
			data: PageData{Reference: reference.Status{State: reference.StatePending}},
			want: []string{`role="status">Reference data is still loading.`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderString(t, Page(tt.data))
			for _, s := range tt.want {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestResults(t *testing.T) {
	html := renderString(t, Results(sampleView(core.ModeAll)))

	assert.True(t, strings.HasPrefix(html, `<section id="results">`))
	assert.Contains(t, html, `<div class="card other-error"><span class="count">1</span><span class="label">Other Errors</span></div>`)
	assert.Contains(t, html, `<a class="filter active" data-partial href="/results?mode=all">All</a>`)
	assert.Contains(t, html, `<a class="filter" data-partial href="/results?mode=not-available">`)
	assert.Contains(t, html, `<tr class="unavailable" data-index="1"><td><input type="checkbox" class="row-select" value="1"></td>`)
	assert.Contains(t, html, `<td class="ir">IR</td>`)
	assert.Contains(t, html, "&lt;b&gt;bad&lt;/b&gt;")
	assert.NotContains(t, html, "<b>bad")
}

func TestResultsEmptyFilter(t *testing.T) {
	v := sampleView(core.ModeAll)
	v.Rows = nil

	html := renderString(t, Results(v))
	assert.Contains(t, html, "No records match this filter.")
	assert.NotContains(t, html, "<table")
}

func TestClipboardTable(t *testing.T) {
	rows := sampleView(core.ModeAll).Rows
	html := renderString(t, ClipboardTable(rows))

	assert.True(t, strings.HasPrefix(html, `<table style="border-collapse:collapse"><tr><th style=`))
	assert.Equal(t, 1, strings.Count(html, "background-color:#dc2626"))
	assert.Contains(t, html, `background-color:#dc2626;color:#ffffff">IR</td>`)
	assert.Equal(t, len(rows)+1, strings.Count(html, "<tr>"))
}

func TestErrorAlert(t *testing.T) {
	html := renderString(t, ErrorAlert(core.MapError(core.ErrNoResults)))
	assert.Equal(t,
		`<div class="alert alert-error" role="alert"><strong>There are no results yet</strong> Upload a file first <small>(RES001)</small></div>`,
		html)

	html = renderString(t, ErrorAlert(core.UserMessage{Message: "x < y", Code: "ERR000"}))
	assert.Equal(t, `<div class="alert alert-error" role="alert"><strong>x &lt; y</strong> <small>(ERR000)</small></div>`, html)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 bytes"},
		{1000, "1000 bytes"},
		{1024, "1 KB"},
		{10 << 20, "10 MB"},
		{1536, "1536 bytes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in), "formatBytes(%d)", tt.in)
	}
}
