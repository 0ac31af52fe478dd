package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/reference"
	"github.com/JonMunkholm/ordercheck/internal/web/templates"
)

var (
	errNoFile     = errors.New("no file provided")
	errBadRequest = errors.New("invalid request")

	errFileTooLarge = errors.New("file too large")
)

const (
	// maxCopyBody bounds the JSON body of a copy request.
	maxCopyBody = 1 << 20

	// multipartOverhead is allowed on top of the file size limit for the
	// multipart boundaries, part headers and file name.
	multipartOverhead = 64 << 10
)

// render writes an HTML component. Errors after the header is sent can
// only be logged.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Warn("render failed", "path", r.URL.Path, "error", err)
	}
}

func (s *Server) pageData(view core.View) templates.PageData {
	return templates.PageData{
		View:        view,
		Reference:   s.service.ReferenceStatus(),
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	}
}

// viewFor switches the session's filter mode when the request names one.
func (s *Server) viewFor(r *http.Request) core.View {
	sess := sessionFrom(r)
	if q := r.URL.Query(); q.Has("mode") {
		return s.service.View(sess, core.ParseFilterMode(q.Get("mode")))
	}
	return s.service.CurrentView(sess)
}

// handleIndex renders the whole page for the caller's session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, templates.Page(s.pageData(s.service.CurrentView(sessionFrom(r)))))
}

// handleResults switches the filter mode and renders the results section,
// or the whole page for a plain navigation.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	view := s.viewFor(r)
	if isPartial(r) {
		render(w, r, http.StatusOK, templates.Results(view))
		return
	}
	render(w, r, http.StatusOK, templates.Page(s.pageData(view)))
}

// handleUpload classifies an uploaded file and shows the new batch.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, _, err := s.upload(w, r); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if isPartial(r) {
		render(w, r, http.StatusOK, templates.Results(s.service.CurrentView(sessionFrom(r))))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// upload reads the multipart "file" field and runs it through the service.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) (string, core.Summary, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			return "", core.Summary{}, fmt.Errorf("file too large: %w", err)
		case errors.Is(err, http.ErrNotMultipart):
			return "", core.Summary{}, errNoFile
		default:
			return "", core.Summary{}, fmt.Errorf("%w: %w", errBadRequest, err)
		}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", core.Summary{}, errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", core.Summary{}, fmt.Errorf("%w: %s is %d bytes, limit %d", errFileTooLarge, header.Filename, header.Size, maxSize)
	}

	summary, err := s.service.Upload(r.Context(), sessionFrom(r), header.Filename, file)
	if err != nil {
		return "", core.Summary{}, err
	}
	return header.Filename, summary, nil
}

// handleClear discards the batch and resets the filter.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.service.Clear(sess)
	if isPartial(r) {
		render(w, r, http.StatusOK, templates.Results(s.service.CurrentView(sess)))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleExport downloads the batch in upload format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exclude := queryBool(r, "exclude_other_errors")

	file, err := s.service.Export(sessionFrom(r), exclude)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("export downloaded",
		"file", file.Name,
		"lines", file.Lines,
		"exclude_other_errors", exclude,
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Write([]byte(file.Content))
}

// CopyRequest names the batch indexes of the rows to copy.
type CopyRequest struct {
	Rows []int `json:"rows"`
}

// CopyResponse holds both clipboard flavours of a selection.
type CopyResponse struct {
	HTML  string `json:"html"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// handleCopy renders the selected rows for the browser to put on the clipboard.
func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req CopyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCopyBody)).Decode(&req); err != nil {
		err = fmt.Errorf("%w: %w", errBadRequest, err)
		s.respondError(w, r, err, statusFor(err))
		return
	}

	rows, err := s.service.Copy(sessionFrom(r), req.Rows)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var html strings.Builder
	if err := templates.ClipboardTable(rows).Render(r.Context(), &html); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, CopyResponse{
		HTML:  html.String(),
		Text:  core.PlainText(rows),
		Count: len(rows),
	})
}

// SummaryResponse is the dashboard as JSON.
type SummaryResponse struct {
	FileName   string                `json:"file_name"`
	Mode       core.FilterMode       `json:"mode"`
	HasResults bool                  `json:"has_results"`
	Summary    core.Summary          `json:"summary"`
	Formatted  core.FormattedSummary `json:"formatted"`
}

func summaryResponse(v core.View) SummaryResponse {
	return SummaryResponse{
		FileName:   v.FileName,
		Mode:       v.Mode,
		HasResults: v.HasResults,
		Summary:    v.Summary,
		Formatted:  v.Summary.Formatted(),
	}
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse(s.service.CurrentView(sessionFrom(r))))
}

// ResultsResponse is the visible table as JSON.
type ResultsResponse struct {
	Mode  core.FilterMode   `json:"mode"`
	Label string            `json:"label"`
	Rows  []core.DisplayRow `json:"rows"`
}

func (s *Server) handleAPIResults(w http.ResponseWriter, r *http.Request) {
	view := s.viewFor(r)
	writeJSON(w, http.StatusOK, ResultsResponse{
		Mode:  view.Mode,
		Label: view.Mode.Label(),
		Rows:  view.Rows,
	})
}

// UploadResponse reports a classified upload. SessionID can be sent back in
// the X-Session-ID header to query the batch.
type UploadResponse struct {
	SessionID string       `json:"session_id"`
	FileName  string       `json:"file_name"`
	Summary   core.Summary `json:"summary"`
}

func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	name, summary, err := s.upload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{
		SessionID: sessionFrom(r).ID,
		FileName:  name,
		Summary:   summary,
	})
}

func (s *Server) handleAPIClear(w http.ResponseWriter, r *http.Request) {
	s.service.Clear(sessionFrom(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIReference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ReferenceStatus())
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Reference reference.LoadState      `json:"reference"`
	Sessions  int                      `json:"sessions"`
	Uploads   core.UploadLimiterStatus `json:"uploads"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Reference: s.service.ReferenceStatus().State,
		Sessions:  s.service.Sessions().Len(),
		Uploads:   s.service.UploadLimiterStatus(),
	})
}

// queryBool reads a checkbox-style query flag.
func queryBool(r *http.Request, name string) bool {
	v := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name)))
	if v == "on" || v == "yes" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
