package session

import (
	"fmt"

	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/markup"
)

// Links returns the distinct links in the active window, newest first.
func (s *Session) Links() []markup.Link {
	w, ok := s.ActiveWindow()
	if !ok {
		return nil
	}
	var out []markup.Link
	seen := make(map[markup.Link]bool)
	for i := len(w.Lines) - 1; i >= 0; i-- {
		for _, l := range markup.Links(w.Lines[i]) {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

// ActivateLink performs the action of a link: hyperlinks open in the
// browser, channels are joined and nicks get a query window. Channel and
// nick actions are relative to the active window's server.
func (s *Session) ActivateLink(l markup.Link) error {
	switch l.Kind {
	case markup.LinkHyperlink:
		s.SetStatus(statusOpeningPrefix + l.Target + statusOpeningSuffix)
		if s.opener == nil {
			return nil
		}
		if err := s.opener.OpenURL(l.Target); err != nil {
			s.logger.Warn("open url failed", "url", l.Target, "err", err)
			return fmt.Errorf("open %s: %w", l.Target, err)
		}
		return nil
	case markup.LinkChannel:
		s.issue(feed.JoinChannelRequest{ClientID: s.clientID, Source: s.active, Channel: l.Target}.Request())
		return nil
	case markup.LinkQuery:
		s.issue(feed.OpenQueryRequest{ClientID: s.clientID, Source: s.active, Target: l.Target}.Request())
		return nil
	default:
		return fmt.Errorf("unsupported link kind %v", l.Kind)
	}
}
