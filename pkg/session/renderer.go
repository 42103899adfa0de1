package session

import (
	"context"

	"github.com/aeolun/ircweb/pkg/feed"
)

// Renderer is the view the session drives. Implementations only draw;
// they never call back into the session.
type Renderer interface {
	// SetStatus replaces the status bar text (plain text).
	SetStatus(text string)
	// SetTitle replaces the window title (plain text).
	SetTitle(text string)
	// SetContent replaces the content pane with the given markup lines.
	SetContent(lines []string)
	// AppendContent adds one markup line to the content pane.
	AppendContent(line string)
	ClearContent()
	SetInputText(text string)
	SetCaret(pos int)
	ShowNicklist(visible bool)
	ShowInputArea(visible bool)
}

// Completion is the outcome of a one-shot request.
type Completion struct {
	Path   string
	Events []feed.Event
	Err    error
}

// Call performs a one-shot request.
type Call func(ctx context.Context) Completion

// Runner executes calls off the caller's goroutine. Each finished call must
// be handed back to Session.Complete on the goroutine that owns the session.
type Runner interface {
	Go(c Call)
}

// Notifier raises a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// URLOpener opens a URL in the user's browser.
type URLOpener interface {
	OpenURL(url string) error
}
