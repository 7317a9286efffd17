package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// objectIDKey is the extended-JSON wrapper some exports use for ids.
const objectIDKey = "$oid"

// ID is a lenient JSON document id. Strings are trimmed, numbers keep their
// literal text, {"$oid": "..."} wrappers are unwrapped and a populated
// document yields its "_id"; any other shape decodes to the empty id.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(parseJSONID(data, 0))
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// ParseJSONID extracts an id from a raw JSON value. The boolean reports
// whether the value is a scalar id (or null) rather than a document.
func ParseJSONID(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err == nil {
			if raw, ok := wrapper[objectIDKey]; ok && len(wrapper) == 1 {
				return parseJSONID(raw, 1), true
			}
		}
		return "", false
	}
	return parseJSONID(trimmed, 0), true
}

func parseJSONID(data []byte, depth int) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || depth > 2 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return ""
		}
		if raw, ok := wrapper[objectIDKey]; ok {
			return parseJSONID(raw, depth+1)
		}
		// a populated document stands in for its id
		return parseJSONID(wrapper["_id"], depth+1)
	case 't', 'f', '[':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

// Int is a lenient JSON integer for counts such as quantities. Numeric
// strings and decimal wrappers are accepted; fractions truncate and anything
// unreadable decodes to zero.
type Int int

func (i Int) Value() int {
	return int(i)
}

func (i *Int) UnmarshalJSON(data []byte) error {
	*i = Int(parseJSONDecimal(data, 0).IntPart())
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(i))), nil
}
