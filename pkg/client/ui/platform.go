package ui

import (
	"io"

	"github.com/gen2brain/beeep"
	"github.com/pkg/browser"
)

func init() {
	// the terminal belongs to the UI; browser helpers must not write to it
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// DesktopNotifier raises highlight notifications through the desktop's
// notification service.
type DesktopNotifier struct {
	IconPath string
}

func (n DesktopNotifier) Notify(title, body string) error {
	if r := []rune(body); len(r) > 100 {
		body = string(r[:97]) + "..."
	}
	return beeep.Notify(title, body, n.IconPath)
}

// BrowserOpener opens hyperlinks in the default browser.
type BrowserOpener struct{}

func (BrowserOpener) OpenURL(url string) error {
	return browser.OpenURL(url)
}
