package types

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp decodes the date shapes the backend emits (ISO-8601 instants,
// bare dates, {"$date": ...} wrappers). Unparseable values decode to the
// zero time.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp tries every known layout and returns the zero time when none match.
func ParseTimestamp(raw string) time.Time {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, clean); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = parseJSONTimestamp(data, 0)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func parseJSONTimestamp(data []byte, depth int) time.Time {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || depth > 2 {
		return time.Time{}
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return time.Time{}
		}
		return ParseTimestamp(s)
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return time.Time{}
		}
		if raw, ok := wrapper["$date"]; ok {
			return parseJSONTimestamp(raw, depth+1)
		}
		return time.Time{}
	default:
		var millis int64
		if err := json.Unmarshal(trimmed, &millis); err != nil {
			return time.Time{}
		}
		return time.UnixMilli(millis).UTC()
	}
}
