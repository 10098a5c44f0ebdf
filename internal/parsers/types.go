package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a bookmark creation time in unix seconds. On the wire it is
// accepted either as a JSON number or as a string holding a number or an
// RFC3339 date.
type Timestamp int64

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(t), 10)), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return t.parseString(strings.TrimSpace(s))
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	return t.parseString(n.String())
}

func (t *Timestamp) parseString(s string) error {
	if s == "" {
		*t = 0
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = Timestamp(i)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*t = Timestamp(int64(f))
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: expected unix seconds or RFC3339", s)
	}
	*t = Timestamp(parsed.Unix())
	return nil
}

// NewBookmarkRecord is a bookmark ready to be inserted. Link is required.
type NewBookmarkRecord struct {
	Title     *string   `json:"title"`
	Link      string    `json:"link"`
	IconLink  *string   `json:"icon_link"`
	CreatedAt Timestamp `json:"created_at"`
}

// ParsedRecord pairs a record with the tag path collected for it.
type ParsedRecord struct {
	NewBookmarkRecord
	Tags []string `json:"tags"`
}

// ParseFailure describes one source entry a parser could not convert.
type ParseFailure struct {
	SourceIndex  int    `json:"note_index"`
	SourceTitle  string `json:"note_title"`
	ErrorMessage string `json:"error"`
}

// ParseOutcome is what every parser returns.
type ParseOutcome struct {
	Successful []ParsedRecord `json:"successful"`
	Failed     []ParseFailure `json:"failed"`
}

// Kind tells built-in parsers apart from external scripts.
type Kind string

const (
	KindBuiltIn  Kind = "built-in"
	KindExternal Kind = "external"
)

// ParseKind normalises a configured parser type. Older configuration files
// used "default" for the built-in parser and "python" for scripts run through
// the python interpreter; for the latter the implied command is returned.
func ParseKind(s string) (Kind, []string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindBuiltIn), "builtin", "default":
		return KindBuiltIn, nil, nil
	case string(KindExternal), "script":
		return KindExternal, nil, nil
	case "python":
		return KindExternal, []string{"python"}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// Descriptor describes a parser for listing and for persistence.
type Descriptor struct {
	Name             string   `json:"name"`
	Kind             Kind     `json:"kind"`
	Path             string   `json:"path"`
	SupportedFormats []string `json:"supported_formats"`
	// Command is prepended to "<path> <input>" when an external parser runs,
	// e.g. ["python3"] or ["node", "--no-warnings"].
	Command        []string `json:"command,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
}

// Timeout returns the per-parser timeout, or zero when none is configured.
func (d Descriptor) Timeout() time.Duration {
	if d.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Supports reports whether format is one of the descriptor's formats.
func (d Descriptor) Supports(format string) bool {
	format = normalizeFormat(format)
	for _, f := range d.SupportedFormats {
		if normalizeFormat(f) == format {
			return true
		}
	}
	return false
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}
