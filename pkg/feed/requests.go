package feed

import (
	"net/url"
	"strconv"
)

// Endpoint paths, relative to the server base URL.
const (
	PathFeed            = "/dynamic/feed"
	PathInput           = "/dynamic/input"
	PathTab             = "/dynamic/tab"
	PathKeyUp           = "/dynamic/keyup"
	PathKeyDown         = "/dynamic/keydown"
	PathKey             = "/dynamic/key"
	PathNicklistRefresh = "/dynamic/nicklistrefresh"
	PathWindowRefresh   = "/dynamic/windowrefresh"
	PathGetProfiles     = "/dynamic/getprofiles"
	PathNewServer       = "/dynamic/newserver"
	PathJoinChannel     = "/dynamic/joinchannel"
	PathOpenQuery       = "/dynamic/openquery"
	PathClients         = "/dynamic/clients"
	PathWebSocket       = "/ws"
)

// Request is a single call against one endpoint. Params are sent as the
// query string for GET and as a form body for POST.
type Request struct {
	Method string
	Path   string
	Params url.Values
}

// InputRequest submits the input box.
type InputRequest struct {
	Input    string
	ClientID string
	Window   string
}

func (r InputRequest) Request() Request {
	return Request{Method: "POST", Path: PathInput, Params: url.Values{
		"input":    {r.Input},
		"clientID": {r.ClientID},
		"window":   {r.Window},
	}}
}

// CaretRequest carries the input box contents and selection. It is the body
// shared by tab completion and history navigation.
type CaretRequest struct {
	Input    string
	SelStart int
	SelEnd   int
	ClientID string
	Window   string
}

func (r CaretRequest) values() url.Values {
	return url.Values{
		"input":    {r.Input},
		"selstart": {strconv.Itoa(r.SelStart)},
		"selend":   {strconv.Itoa(r.SelEnd)},
		"clientID": {r.ClientID},
		"window":   {r.Window},
	}
}

// Tab requests completion at the caret.
func (r CaretRequest) Tab() Request {
	return Request{Method: "POST", Path: PathTab, Params: r.values()}
}

// KeyUp requests the previous history entry.
func (r CaretRequest) KeyUp() Request {
	return Request{Method: "POST", Path: PathKeyUp, Params: r.values()}
}

// KeyDown requests the next history entry.
func (r CaretRequest) KeyDown() Request {
	return Request{Method: "POST", Path: PathKeyDown, Params: r.values()}
}

// KeyRequest forwards a control-key combination.
type KeyRequest struct {
	CaretRequest
	Key   int
	Ctrl  bool
	Shift bool
	Alt   bool
}

func (r KeyRequest) Request() Request {
	v := r.values()
	v.Set("key", strconv.Itoa(r.Key))
	v.Set("ctrl", strconv.FormatBool(r.Ctrl))
	v.Set("shift", strconv.FormatBool(r.Shift))
	v.Set("alt", strconv.FormatBool(r.Alt))
	return Request{Method: "POST", Path: PathKey, Params: v}
}

// NewServerRequest asks the client to connect to a new server.
type NewServerRequest struct {
	Server   string
	Port     string
	Password string
	Profile  string
}

func (r NewServerRequest) Request() Request {
	return Request{Method: "POST", Path: PathNewServer, Params: url.Values{
		"server":   {r.Server},
		"port":     {r.Port},
		"password": {r.Password},
		"profile":  {r.Profile},
	}}
}

// JoinChannelRequest joins a channel on the server of Source.
type JoinChannelRequest struct {
	ClientID string
	Source   string
	Channel  string
}

func (r JoinChannelRequest) Request() Request {
	return Request{Method: "POST", Path: PathJoinChannel, Params: url.Values{
		"clientID": {r.ClientID},
		"source":   {r.Source},
		"channel":  {r.Channel},
	}}
}

// OpenQueryRequest opens a query with Target on the server of Source.
type OpenQueryRequest struct {
	ClientID string
	Source   string
	Target   string
}

func (r OpenQueryRequest) Request() Request {
	return Request{Method: "POST", Path: PathOpenQuery, Params: url.Values{
		"clientID": {r.ClientID},
		"source":   {r.Source},
		"target":   {r.Target},
	}}
}

func FeedRequest(clientID string) Request {
	return Request{Method: "GET", Path: PathFeed, Params: url.Values{"clientID": {clientID}}}
}

func NicklistRefresh(windowID string) Request {
	return Request{Method: "GET", Path: PathNicklistRefresh, Params: url.Values{"window": {windowID}}}
}

func WindowRefresh(windowID string) Request {
	return Request{Method: "GET", Path: PathWindowRefresh, Params: url.Values{"window": {windowID}}}
}

func GetProfiles() Request {
	return Request{Method: "GET", Path: PathGetProfiles}
}

func Clients() Request {
	return Request{Method: "GET", Path: PathClients}
}

// ClientInfo is one row of the clients endpoint.
type ClientInfo struct {
	IP string `json:"ip"`
	// Time is milliseconds since the client last polled.
	Time       int64 `json:"time"`
	EventCount int   `json:"eventCount"`
}
