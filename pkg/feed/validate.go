package feed

import (
	"errors"
	"strconv"
	"unicode"
)

// The text of these errors is shown to the user as is.
var (
	ErrInvalidServer = errors.New("Server name cannot contain spaces")
	ErrInvalidPort   = errors.New("Port must be a number between 1 and 65535")
)

// ValidateNewServer checks the new-server form. The server must be a
// non-empty run of non-space characters; the port must be all digits and
// within 1..65535.
func ValidateNewServer(server, port string) error {
	if server == "" {
		return ErrInvalidServer
	}
	for _, r := range server {
		if unicode.IsSpace(r) {
			return ErrInvalidServer
		}
	}

	if port == "" {
		return ErrInvalidPort
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return ErrInvalidPort
		}
	}
	n, err := strconv.ParseUint(port, 10, 64)
	if err != nil || n < 1 || n > 65535 {
		return ErrInvalidPort
	}
	return nil
}

// StatusError reports a non-2xx response from an endpoint.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "http " + strconv.Itoa(e.Code) + " from " + e.Path
}
