package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LoadState describes where the startup load stands.
type LoadState string

const (
	StatePending LoadState = "pending"
	StateLoaded  LoadState = "loaded"
	StateFailed  LoadState = "failed"
)

// Status is a snapshot of the holder for monitoring and the UI.
type Status struct {
	State    LoadState `json:"state"`
	Source   string    `json:"source,omitempty"`
	Size     int       `json:"size"`
	LoadedAt time.Time `json:"loaded_at,omitzero"`
	Error    string    `json:"error,omitempty"`
}

// Holder owns the process-wide index. It starts empty and accepts exactly
// one outcome (a loaded index or a failure); later outcomes are ignored.
type Holder struct {
	mu     sync.RWMutex
	index  *Index
	status Status
}

// NewHolder returns a holder with an empty index in the pending state.
func NewHolder() *Holder {
	return &Holder{
		index:  Empty(),
		status: Status{State: StatePending},
	}
}

// Index returns the current index. It is never nil.
func (h *Holder) Index() *Index {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.index
}

// Status returns a copy of the current load status.
func (h *Holder) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Set installs idx as the index. Returns false if an outcome was already recorded.
func (h *Holder) Set(idx *Index, source string) bool {
	if idx == nil {
		idx = Empty()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status.State != StatePending {
		slog.Warn("reference index already settled, ignoring new index",
			"state", h.status.State,
			"source", source,
		)
		return false
	}

	h.index = idx
	h.status = Status{
		State:    StateLoaded,
		Source:   source,
		Size:     idx.Len(),
		LoadedAt: time.Now(),
	}
	return true
}

// Fail records a failed load. The index stays empty.
func (h *Holder) Fail(source string, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status.State != StatePending {
		return false
	}

	h.status = Status{
		State:  StateFailed,
		Source: source,
		Error:  err.Error(),
	}
	return true
}

// Fetch retrieves and indexes the dataset. Every error wraps ErrDataUnavailable.
func Fetch(ctx context.Context, src Source) (*Index, error) {
	records, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, src.Name(), err)
	}
	return NewIndex(records), nil
}

// Load fetches the dataset and never fails: on error the failure is logged
// and an empty index is returned. There is no retry.
func Load(ctx context.Context, src Source) *Index {
	idx, err := Fetch(ctx, src)
	if err != nil {
		slog.Error("reference load failed, continuing with empty index",
			"source", src.Name(),
			"error", err,
		)
		return Empty()
	}
	slog.Info("reference data loaded", "source", src.Name(), "codes", idx.Len())
	return idx
}

// LoadInto fetches from src like Load and records the outcome on h.
func LoadInto(ctx context.Context, h *Holder, src Source) {
	idx, err := Fetch(ctx, src)
	if err != nil {
		slog.Error("reference load failed, continuing with empty index",
			"source", src.Name(),
			"error", err,
		)
		h.Fail(src.Name(), err)
		return
	}
	slog.Info("reference data loaded", "source", src.Name(), "codes", idx.Len())
	h.Set(idx, src.Name())
}
