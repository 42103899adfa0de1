package session

import (
	"fmt"
	"strings"

	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/markup"
)

// maxMRU bounds the focus history used when the active window closes.
const maxMRU = 64

// Dispatch applies events in order. An event that cannot be applied is
// logged and skipped; the rest of the batch still runs.
func (s *Session) Dispatch(events []feed.Event) {
	d := dispatcher{s: s}
	for _, ev := range events {
		s.metrics.ObserveEvent(ev.Tag())
		if err := ev.Accept(d); err != nil {
			s.logger.Warn("event skipped", "tag", ev.Tag(), "err", err)
		}
	}
}

type dispatcher struct {
	s *Session
}

var _ feed.Handler = dispatcher{}

func (d dispatcher) OnStatusBar(e feed.StatusBar) error {
	d.s.SetStatus(e.Text)
	return nil
}

func (d dispatcher) OnClearProfiles(feed.ClearProfiles) error {
	d.s.profiles = nil
	return nil
}

func (d dispatcher) OnAddProfile(e feed.AddProfile) error {
	d.s.profiles = append(d.s.profiles, e.Name)
	return nil
}

func (d dispatcher) OnNewWindow(e feed.NewWindow) error {
	return d.s.createWindow(e.Window, e.ParentID)
}

func (d dispatcher) OnCloseWindow(e feed.CloseWindow) error {
	return d.s.CloseWindow(e.WindowID)
}

func (d dispatcher) OnClearWindow(e feed.ClearWindow) error {
	if err := d.s.registry.ClearLines(e.WindowID); err != nil {
		return err
	}
	if e.WindowID == d.s.active {
		d.s.renderer.ClearContent()
	}
	return nil
}

func (d dispatcher) OnLineAdded(e feed.LineAdded) error {
	s := d.s
	trimmed, err := s.registry.AppendLine(e.WindowID, e.Message)
	if err != nil {
		return err
	}
	w, _ := s.registry.Get(e.WindowID)
	if e.WindowID == s.active {
		if trimmed {
			s.renderer.SetContent(w.Lines)
		} else {
			s.renderer.AppendContent(e.Message)
		}
		return nil
	}
	w.Unread++
	s.checkHighlight(w, e.Message)
	return nil
}

func (d dispatcher) OnSetText(e feed.SetText) error {
	d.s.renderer.SetInputText(e.Text)
	return nil
}

func (d dispatcher) OnClearNicklist(feed.ClearNicklist) error {
	d.s.nicklist.Clear()
	return nil
}

func (d dispatcher) OnAddNicklist(e feed.AddNicklist) error {
	d.s.nicklist.Add(e.Nick)
	return nil
}

func (d dispatcher) OnSetCaret(e feed.SetCaret) error {
	d.s.renderer.SetCaret(e.Position)
	return nil
}

func (d dispatcher) OnUnknown(e feed.Unknown) error {
	d.s.SetStatus(statusUnknownPrefix + e.Type)
	return nil
}

// createWindow registers and shows a new window, then asks the server for
// its backlog.
func (s *Session) createWindow(info feed.WindowInfo, parentID string) error {
	if info.ID == "" {
		return fmt.Errorf("window without id")
	}
	title := info.Title
	if title == "" {
		title = info.Name
	}
	// a repeated id renames the window and keeps its buffer
	w, err := s.registry.Get(info.ID)
	if err == nil {
		w.Name, w.Type, w.Title = info.Name, info.Type, title
	} else {
		w = &Window{ID: info.ID, Name: info.Name, Type: info.Type, Title: title}
		s.registry.Register(w)
	}
	s.tree.Add(w.Name, w.ID, w.Type, parentID)
	w.ParentID = s.tree.Parent(w.ID)

	if err := s.ShowWindow(w.ID); err != nil {
		return err
	}
	s.issue(feed.WindowRefresh(w.ID))
	return nil
}

// ShowWindow makes id the active window and redraws everything that
// depends on it.
func (s *Session) ShowWindow(id string) error {
	w, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	if s.active != "" && s.active != id {
		s.pushMRU(s.active)
	}
	s.active = id
	s.tree.SetActive(id)
	w.Unread = 0

	s.setTitle(w.Title + TitleSuffix)

	if w.Type == TypeChannel {
		if s.nicklist.Window() != id {
			s.nicklist.Clear()
		}
		s.nicklist.Show(id)
		s.renderer.ShowNicklist(true)
		s.issue(feed.NicklistRefresh(id))
	} else {
		s.nicklist.Hide()
		s.renderer.ShowNicklist(false)
	}

	s.renderer.ShowInputArea(w.HasInput())
	s.renderer.SetContent(w.Lines)
	return nil
}

// CloseWindow removes id and its subtree. If the active window goes away,
// focus moves to its parent, then to the most recently active surviving
// window, and otherwise the view is reset.
func (s *Session) CloseWindow(id string) error {
	if !s.registry.Has(id) {
		return fmt.Errorf("close: %w: %q", ErrWindowNotFound, id)
	}
	parent := s.tree.Parent(id)
	removed := s.tree.Remove(id)
	if len(removed) == 0 {
		removed = []string{id}
	}

	activeGone := false
	for _, r := range removed {
		s.registry.Remove(r)
		s.dropMRU(r)
		if r == s.active {
			activeGone = true
		}
	}
	if !activeGone {
		return nil
	}

	s.active = ""
	if parent != "" && s.registry.Has(parent) {
		return s.ShowWindow(parent)
	}
	if n := len(s.mru); n > 0 {
		return s.ShowWindow(s.mru[n-1])
	}
	s.resetView()
	return nil
}

func (s *Session) resetView() {
	s.active = ""
	s.tree.ClearActive()
	s.nicklist.Hide()
	s.nicklist.Clear()
	s.setTitle("")
	s.renderer.ClearContent()
	s.renderer.ShowNicklist(false)
	s.renderer.ShowInputArea(false)
}

func (s *Session) pushMRU(id string) {
	s.dropMRU(id)
	s.mru = append(s.mru, id)
	if len(s.mru) > maxMRU {
		s.mru = s.mru[len(s.mru)-maxMRU:]
	}
}

func (s *Session) dropMRU(id string) {
	out := s.mru[:0]
	for _, v := range s.mru {
		if v != id {
			out = append(out, v)
		}
	}
	s.mru = out
}

func (s *Session) checkHighlight(w *Window, line string) {
	if s.notifier == nil || len(s.highlights) == 0 {
		return
	}
	text := markup.PlainText(line)
	lower := strings.ToLower(text)
	for _, h := range s.highlights {
		if strings.Contains(lower, h) {
			if err := s.notifier.Notify(markup.Sanitize(w.Name), markup.Sanitize(text)); err != nil {
				s.logger.Debug("notification failed", "window", w.ID, "err", err)
			}
			return
		}
	}
}
