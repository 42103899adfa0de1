package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedEvent is wrapped by every per-record decode failure.
var ErrMalformedEvent = errors.New("malformed event")

type record struct {
	Type string          `json:"type"`
	Arg1 json.RawMessage `json:"arg1"`
}

// windowRef accepts a window id as a JSON string, a JSON number, or an
// object carrying an "id" member.
type windowRef string

func (w *windowRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = windowRef(s)
		return nil
	case '{':
		var obj struct {
			ID windowRef `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*w = obj.ID
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("window id: %w", err)
		}
		*w = windowRef(n.String())
		return nil
	}
}

type windowJSON struct {
	ID    windowRef `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Title string    `json:"title"`
}

func (w windowJSON) info() WindowInfo {
	return WindowInfo{ID: string(w.ID), Name: w.Name, Type: w.Type, Title: w.Title}
}

// DecodeBatch decodes a feed response. The payload may be a JSON array of
// records or a single record. Records that fail to decode are skipped and
// reported through the returned error; all well-formed records are still
// returned in order. A payload that is not JSON at all yields no events.
func DecodeBatch(data []byte) ([]Event, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var records []record
	if data[0] == '{' {
		var r record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}
		records = []record{r}
	} else if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	events := make([]Event, 0, len(records))
	var errs []error
	for i, r := range records {
		ev, err := decodeRecord(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d (%s): %w", i, r.Type, err))
			continue
		}
		events = append(events, ev)
	}
	return events, errors.Join(errs...)
}

func decodeRecord(r record) (Event, error) {
	switch r.Type {
	case TagStatusBar:
		s, err := decodeString(r.Arg1)
		return StatusBar{Text: s}, err
	case TagClearProfiles:
		return ClearProfiles{}, nil
	case TagAddProfile:
		s, err := decodeString(r.Arg1)
		return AddProfile{Name: s}, err
	case TagNewWindow:
		var w windowJSON
		if err := unmarshalArg(r.Arg1, &w); err != nil {
			return nil, err
		}
		if w.ID == "" {
			return nil, fmt.Errorf("%w: window without id", ErrMalformedEvent)
		}
		return NewWindow{Window: w.info()}, nil
	case TagNewChildWindow:
		var pair []windowJSON
		if err := unmarshalArg(r.Arg1, &pair); err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: want [parent, child], got %d entries", ErrMalformedEvent, len(pair))
		}
		if pair[1].ID == "" {
			return nil, fmt.Errorf("%w: window without id", ErrMalformedEvent)
		}
		return NewWindow{Window: pair[1].info(), ParentID: string(pair[0].ID)}, nil
	case TagCloseWindow:
		var id windowRef
		err := unmarshalArg(r.Arg1, &id)
		return CloseWindow{WindowID: string(id)}, err
	case TagClearWindow:
		var id windowRef
		err := unmarshalArg(r.Arg1, &id)
		return ClearWindow{WindowID: string(id)}, err
	case TagLineAdded:
		var arg struct {
			Window  windowRef `json:"window"`
			Message string    `json:"message"`
		}
		err := unmarshalArg(r.Arg1, &arg)
		return LineAdded{WindowID: string(arg.Window), Message: arg.Message}, err
	case TagSetText:
		s, err := decodeString(r.Arg1)
		return SetText{Text: s}, err
	case TagClearNicklist:
		return ClearNicklist{}, nil
	case TagAddNicklist:
		s, err := decodeString(r.Arg1)
		return AddNicklist{Nick: s}, err
	case TagSetCaret:
		n, err := decodeInt(r.Arg1)
		return SetCaret{Position: n}, err
	default:
		return Unknown{Type: r.Type, Arg1: append([]byte(nil), r.Arg1...)}, nil
	}
}

func unmarshalArg(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing arg1", ErrMalformedEvent)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

func decodeString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] != '"' {
		// Scalars other than strings are shown as their literal text.
		return string(raw), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return s, nil
}

func decodeInt(raw json.RawMessage) (int, error) {
	s, err := decodeString(raw)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: caret %q: %v", ErrMalformedEvent, s, err)
	}
	return n, nil
}

// EncodeBatch is the inverse of DecodeBatch. Fake servers in tests and the
// headless feed command use it.
func EncodeBatch(events []Event) ([]byte, error) {
	out := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		rec := map[string]any{"type": ev.Tag()}
		switch e := ev.(type) {
		case StatusBar:
			rec["arg1"] = e.Text
		case ClearProfiles:
			rec["arg1"] = false
		case AddProfile:
			rec["arg1"] = e.Name
		case NewWindow:
			child := windowMap(e.Window)
			if e.ParentID != "" {
				rec["arg1"] = []any{map[string]any{"id": e.ParentID}, child}
			} else {
				rec["arg1"] = child
			}
		case CloseWindow:
			rec["arg1"] = e.WindowID
		case ClearWindow:
			rec["arg1"] = e.WindowID
		case LineAdded:
			rec["arg1"] = map[string]any{"window": e.WindowID, "message": e.Message}
		case SetText:
			rec["arg1"] = e.Text
		case ClearNicklist:
			rec["arg1"] = false
		case AddNicklist:
			rec["arg1"] = e.Nick
		case SetCaret:
			rec["arg1"] = e.Position
		case Unknown:
			if len(e.Arg1) > 0 {
				rec["arg1"] = json.RawMessage(e.Arg1)
			}
		default:
			return nil, fmt.Errorf("encode batch: unsupported event %T", ev)
		}
		out = append(out, rec)
	}
	return json.Marshal(out)
}

func windowMap(w WindowInfo) map[string]any {
	return map[string]any{"id": w.ID, "name": w.Name, "type": w.Type, "title": w.Title}
}
