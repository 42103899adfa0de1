package session

import "github.com/aeolun/ircweb/pkg/feed"

// Key codes understood by HandleKey.
const (
	KeyTab      = 9
	KeyLineFeed = 10
	KeyEnter    = 13
	KeyUp       = 38
	KeyDown     = 40
)

// ctrlKeys are forwarded to the server when pressed with ctrl held.
var ctrlKeys = map[int]bool{
	KeyLineFeed: true,
	'B':         true,
	'F':         true,
	'I':         true,
	'K':         true,
	'O':         true,
	'U':         true,
}

// Key is one key press.
type Key struct {
	Code  int
	Ctrl  bool
	Shift bool
	Alt   bool
}

// InputState is the input box at the time of a key press.
type InputState struct {
	Text     string
	SelStart int
	SelEnd   int
}

// HandleKey routes a key press from the input box. It returns true when the
// key should keep its default editing behaviour.
func (s *Session) HandleKey(k Key, in InputState) bool {
	code := k.Code
	if code == KeyEnter {
		code = KeyLineFeed
	}

	caret := feed.CaretRequest{
		Input:    in.Text,
		SelStart: in.SelStart,
		SelEnd:   in.SelEnd,
		ClientID: s.clientID,
		Window:   s.active,
	}

	switch {
	case code == KeyLineFeed && !k.Ctrl:
		s.issue(feed.InputRequest{Input: in.Text, ClientID: s.clientID, Window: s.active}.Request())
		s.renderer.SetInputText("")
		return true
	case code == KeyTab && !k.Ctrl:
		s.issue(caret.Tab())
		return false
	case code == KeyUp:
		s.issue(caret.KeyUp())
		return false
	case code == KeyDown:
		s.issue(caret.KeyDown())
		return false
	case k.Ctrl && ctrlKeys[code]:
		s.issue(feed.KeyRequest{
			CaretRequest: caret,
			Key:          code,
			Ctrl:         k.Ctrl,
			Shift:        k.Shift,
			Alt:          k.Alt,
		}.Request())
		return false
	}
	return true
}
