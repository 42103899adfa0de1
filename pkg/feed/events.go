package feed

// Wire tags of the event records produced by the feed and refresh endpoints.
const (
	TagStatusBar      = "statusbar"
	TagClearProfiles  = "clearprofiles"
	TagAddProfile     = "addprofile"
	TagNewWindow      = "newwindow"
	TagNewChildWindow = "newchildwindow"
	TagCloseWindow    = "closewindow"
	TagClearWindow    = "clearwindow"
	TagLineAdded      = "lineadded"
	TagSetText        = "settext"
	TagClearNicklist  = "clearnicklist"
	TagAddNicklist    = "addnicklist"
	TagSetCaret       = "setcaret"
)

// Event is a single decoded record of an event batch.
type Event interface {
	// Tag returns the wire tag of the record.
	Tag() string
	// Accept calls the Handler method matching the concrete event kind.
	Accept(h Handler) error
}

// Handler receives events by kind. Adding an event kind adds a method here,
// so every Handler implementation must be updated to keep compiling.
type Handler interface {
	OnStatusBar(e StatusBar) error
	OnClearProfiles(e ClearProfiles) error
	OnAddProfile(e AddProfile) error
	OnNewWindow(e NewWindow) error
	OnCloseWindow(e CloseWindow) error
	OnClearWindow(e ClearWindow) error
	OnLineAdded(e LineAdded) error
	OnSetText(e SetText) error
	OnClearNicklist(e ClearNicklist) error
	OnAddNicklist(e AddNicklist) error
	OnSetCaret(e SetCaret) error
	OnUnknown(e Unknown) error
}

// WindowInfo describes a window as announced by the server.
type WindowInfo struct {
	ID    string
	Name  string
	Type  string
	Title string
}

// StatusBar replaces the status bar text. Text is plain, not markup.
type StatusBar struct {
	Text string
}

// ClearProfiles empties the profile list offered by the new-server dialog.
type ClearProfiles struct{}

// AddProfile appends a profile name.
type AddProfile struct {
	Name string
}

// NewWindow announces a window. ParentID is set for newchildwindow records.
type NewWindow struct {
	Window   WindowInfo
	ParentID string
}

// CloseWindow removes a window.
type CloseWindow struct {
	WindowID string
}

// ClearWindow empties a window's buffered lines.
type ClearWindow struct {
	WindowID string
}

// LineAdded appends one pre-rendered line to a window. Message is markup
// produced by the server and is rendered as such.
type LineAdded struct {
	WindowID string
	Message  string
}

// SetText replaces the input box contents.
type SetText struct {
	Text string
}

// ClearNicklist empties the nick list.
type ClearNicklist struct{}

// AddNicklist appends one nick.
type AddNicklist struct {
	Nick string
}

// SetCaret moves the input caret.
type SetCaret struct {
	Position int
}

// Unknown is a record whose tag this client does not understand.
type Unknown struct {
	Type string
	Arg1 []byte
}

func (StatusBar) Tag() string     { return TagStatusBar }
func (ClearProfiles) Tag() string { return TagClearProfiles }
func (AddProfile) Tag() string    { return TagAddProfile }
func (e NewWindow) Tag() string {
	if e.ParentID != "" {
		return TagNewChildWindow
	}
	return TagNewWindow
}
func (CloseWindow) Tag() string   { return TagCloseWindow }
func (ClearWindow) Tag() string   { return TagClearWindow }
func (LineAdded) Tag() string     { return TagLineAdded }
func (SetText) Tag() string       { return TagSetText }
func (ClearNicklist) Tag() string { return TagClearNicklist }
func (AddNicklist) Tag() string   { return TagAddNicklist }
func (SetCaret) Tag() string      { return TagSetCaret }
func (e Unknown) Tag() string     { return e.Type }

func (e StatusBar) Accept(h Handler) error     { return h.OnStatusBar(e) }
func (e ClearProfiles) Accept(h Handler) error { return h.OnClearProfiles(e) }
func (e AddProfile) Accept(h Handler) error    { return h.OnAddProfile(e) }
func (e NewWindow) Accept(h Handler) error     { return h.OnNewWindow(e) }
func (e CloseWindow) Accept(h Handler) error   { return h.OnCloseWindow(e) }
func (e ClearWindow) Accept(h Handler) error   { return h.OnClearWindow(e) }
func (e LineAdded) Accept(h Handler) error     { return h.OnLineAdded(e) }
func (e SetText) Accept(h Handler) error       { return h.OnSetText(e) }
func (e ClearNicklist) Accept(h Handler) error { return h.OnClearNicklist(e) }
func (e AddNicklist) Accept(h Handler) error   { return h.OnAddNicklist(e) }
func (e SetCaret) Accept(h Handler) error      { return h.OnSetCaret(e) }
func (e Unknown) Accept(h Handler) error       { return h.OnUnknown(e) }

// Batch is one delivery from an event source: the events of one feed
// response or push message, or the error that prevented it.
type Batch struct {
	Events []Event
	Err    error
}
