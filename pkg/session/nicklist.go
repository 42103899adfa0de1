package session

// Nicklist is the nick list of the active channel window. Nicks keep
// insertion order.
type Nicklist struct {
	visible bool
	window  string
	nicks   []string
}

// Show marks the list visible for windowID. The caller refreshes its
// contents.
func (n *Nicklist) Show(windowID string) {
	n.visible = true
	n.window = windowID
}

func (n *Nicklist) Hide() {
	n.visible = false
	n.window = ""
}

func (n *Nicklist) Clear() {
	n.nicks = nil
}

func (n *Nicklist) Add(nick string) {
	n.nicks = append(n.nicks, nick)
}

func (n *Nicklist) Visible() bool {
	return n.visible
}

// Window returns the window the list was last shown for.
func (n *Nicklist) Window() string {
	return n.window
}

func (n *Nicklist) Nicks() []string {
	return append([]string(nil), n.nicks...)
}
