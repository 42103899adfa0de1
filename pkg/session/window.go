package session

import (
	"errors"
	"fmt"
	"sort"
)

// Window types announced by the server. Other values are kept verbatim.
const (
	TypeGlobal  = "global"
	TypeServer  = "server"
	TypeRaw     = "raw"
	TypeChannel = "channel"
	TypeQuery   = "query"
	TypeInput   = "input"
)

// ErrWindowNotFound is returned for ids that are not registered.
var ErrWindowNotFound = errors.New("window not found")

// Window is the client-side mirror of one server window.
type Window struct {
	ID       string
	Name     string
	Type     string
	ParentID string
	Title    string
	// Lines are pre-rendered markup fragments, oldest first.
	Lines []string
	// Unread counts lines added while the window was not active.
	Unread int
}

// HasInput reports whether the input area is shown for this window.
func (w *Window) HasInput() bool {
	switch w.Type {
	case TypeServer, TypeChannel, TypeInput, TypeQuery:
		return true
	}
	return false
}

// Registry maps window ids to windows.
type Registry struct {
	windows    map[string]*Window
	scrollback int
}

// NewRegistry creates an empty registry. scrollback caps the lines kept per
// window; 0 keeps everything.
func NewRegistry(scrollback int) *Registry {
	return &Registry{windows: make(map[string]*Window), scrollback: scrollback}
}

// Register adds w, replacing any window with the same id.
func (r *Registry) Register(w *Window) {
	r.windows[w.ID] = w
}

func (r *Registry) Get(id string) (*Window, error) {
	w, ok := r.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWindowNotFound, id)
	}
	return w, nil
}

func (r *Registry) Has(id string) bool {
	_, ok := r.windows[id]
	return ok
}

func (r *Registry) Remove(id string) {
	delete(r.windows, id)
}

func (r *Registry) Len() int {
	return len(r.windows)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.windows))
	for id := range r.windows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AppendLine adds a line to the window buffer, trimming to the scrollback
// limit. It returns true when older lines were dropped.
func (r *Registry) AppendLine(id, line string) (trimmed bool, err error) {
	w, err := r.Get(id)
	if err != nil {
		return false, err
	}
	w.Lines = append(w.Lines, line)
	if r.scrollback > 0 && len(w.Lines) > r.scrollback {
		w.Lines = append(w.Lines[:0:0], w.Lines[len(w.Lines)-r.scrollback:]...)
		return true, nil
	}
	return false, nil
}

func (r *Registry) ClearLines(id string) error {
	w, err := r.Get(id)
	if err != nil {
		return err
	}
	w.Lines = nil
	return nil
}
