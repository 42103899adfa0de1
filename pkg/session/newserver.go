package session

import (
	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
)

// NewServerForm is the content of the new-server dialog.
type NewServerForm struct {
	Server   string
	Port     string
	Password string
	Profile  string
}

// OpenNewServer requests the profile list and returns the form prefilled
// with the last submitted values.
func (s *Session) OpenNewServer() NewServerForm {
	s.issue(feed.GetProfiles())
	if s.state == nil {
		return NewServerForm{}
	}
	last := s.state.GetLastServerForm()
	return NewServerForm{Server: last.Server, Port: last.Port, Profile: last.Profile}
}

// SubmitNewServer validates the form and, if it is valid, asks the client
// to connect. Validation errors are feed.ErrInvalidServer or
// feed.ErrInvalidPort and nothing is sent.
func (s *Session) SubmitNewServer(f NewServerForm) error {
	if err := feed.ValidateNewServer(f.Server, f.Port); err != nil {
		return err
	}
	s.issue(feed.NewServerRequest{
		Server:   f.Server,
		Port:     f.Port,
		Password: f.Password,
		Profile:  f.Profile,
	}.Request())

	if s.state != nil {
		err := s.state.SetLastServerForm(client.ServerForm{Server: f.Server, Port: f.Port, Profile: f.Profile})
		if err != nil {
			s.logger.Warn("remember server form failed", "err", err)
		}
	}
	return nil
}
