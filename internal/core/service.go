package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/ordercheck/internal/config"
	"github.com/JonMunkholm/ordercheck/internal/logging"
	"github.com/JonMunkholm/ordercheck/internal/reference"
)

// IndexProvider supplies the reference index current at call time.
// *reference.Holder satisfies it.
type IndexProvider interface {
	Index() *reference.Index
	Status() reference.Status
}

// Service ties the reference index, the result sessions and the upload
// limiter together. It is the entry point for every transport.
type Service struct {
	index    IndexProvider
	sessions *SessionStore
	limiter  *UploadLimiter
}

// NewService creates a service using cfg's upload and session settings.
func NewService(index IndexProvider, cfg *config.Config) *Service {
	return &Service{
		index:    index,
		sessions: NewSessionStore(cfg.Session.TTL),
		limiter:  NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}
}

// Sessions returns the session store.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// ReferenceStatus reports the state of the reference load.
func (s *Service) ReferenceStatus() reference.Status {
	return s.index.Status()
}

// Upload reads r, classifies every line against the current index and
// replaces the session's batch with the result.
//
// A second upload on the same session while one is running fails with
// ErrUploadInProgress. Once reading finishes, classification runs to
// completion; only the wait for a slot and the read honour ctx.
func (s *Service) Upload(ctx context.Context, sess *Session, fileName string, r io.Reader) (Summary, error) {
	ip, ua := ClientFromContext(ctx)
	logger := logging.WithFields(ctx, "file", fileName, "client_ip", ip, "user_agent", ua)

	if err := sess.beginUpload(); err != nil {
		return Summary{}, err
	}
	defer sess.endUpload()

	if err := s.limiter.Acquire(ctx); err != nil {
		return Summary{}, fmt.Errorf("upload %s: %w", fileName, err)
	}
	defer s.limiter.Release()

	start := time.Now()
	lines, err := ReadLines(contextReader{ctx: ctx, r: r})
	if err != nil {
		return Summary{}, fmt.Errorf("upload %s: %w", fileName, err)
	}

	idx := s.index.Index()
	records := ClassifyAll(lines, idx)
	summary := sess.Replace(records, fileName)

	logger.Info("upload classified",
		"records", summary.Total,
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"other_errors", summary.OtherErrors,
		"reference_codes", idx.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// View is what the results page needs for one render.
type View struct {
	Summary    Summary
	Mode       FilterMode
	FileName   string
	Rows       []DisplayRow
	HasResults bool
}

// View switches the session to mode and returns the visible rows.
func (s *Service) View(sess *Session, mode FilterMode) View {
	sess.SetMode(mode)
	return s.CurrentView(sess)
}

// CurrentView returns the visible rows under the session's active mode.
func (s *Service) CurrentView(sess *Session) View {
	snap := sess.Snapshot()
	return View{
		Summary:    snap.Summary,
		Mode:       snap.Mode,
		FileName:   snap.FileName,
		Rows:       VisibleRows(snap.Records, snap.Mode),
		HasResults: snap.HasResults(),
	}
}

// ExportFile is a rendered export ready to be saved or downloaded.
type ExportFile struct {
	Name    string
	Content string
	Lines   int
}

// Export renders the session's batch in upload format.
func (s *Service) Export(sess *Session, excludeOtherErrors bool) (ExportFile, error) {
	snap := sess.Snapshot()
	if !snap.HasResults() {
		return ExportFile{}, ErrNoResults
	}

	lines := ToExportLines(snap.Records, excludeOtherErrors)
	return ExportFile{
		Name:    ExportFileName(snap.FileName, excludeOtherErrors),
		Content: ExportText(lines),
		Lines:   len(lines),
	}, nil
}

// Copy returns the selected rows, projected as displayed, for the clipboard.
func (s *Service) Copy(sess *Session, indexes []int) ([]DisplayRow, error) {
	snap := sess.Snapshot()
	if !snap.HasResults() {
		return nil, ErrNothingSelected
	}
	return SelectRows(snap.Records, indexes)
}

// Clear discards the session's batch.
func (s *Service) Clear(sess *Session) {
	sess.Clear()
}

// UploadLimiterStatus returns the current state of the upload limiter.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// contextReader stops a read once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
