package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item is a single gallery record as returned by the upstream API. The
// upstream schema is loose (optional fields, inconsistent key casing), so the
// record is kept as a raw JSON object and every field access goes through an
// ordered key-alias lookup instead of a fixed struct.
//
// An Item is never mutated by the aggregator; it is only inspected, filtered
// and passed through. Mutating operations (favorites normalization, tag
// updates) work on copies.
type Item map[string]any

// ID returns the item identifier as a string. Upstream sends both string and
// numeric ids.
func (it Item) ID() string {
	return StringifyScalar(it["id"])
}

// URL returns the media location, or "" when absent.
func (it Item) URL() string {
	return StringifyScalar(it["url"])
}

// Meta returns the generation-parameter mapping. Absent or non-mapping values
// normalize to an empty map.
func (it Item) Meta() map[string]any {
	if m, ok := it["meta"].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Username returns user.username, falling back to user.name.
func (it Item) Username() string {
	user, ok := it["user"].(map[string]any)
	if !ok {
		return ""
	}
	if s := StringifyScalar(user["username"]); s != "" {
		return s
	}
	return StringifyScalar(user["name"])
}

// Tags returns the item's string tags; non-string entries are skipped.
func (it Item) Tags() []string {
	raw, ok := it["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// FirstString returns the value of the first key in keys whose stringified
// value is non-empty.
func FirstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := StringifyScalar(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// StringifyScalar renders a decoded JSON scalar as a string. Numeric ids must
// not pick up an exponent, so request/response bodies are decoded with
// json.Decoder.UseNumber wherever items enter the system.
func StringifyScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// DecodeItem parses a JSON object into an Item, preserving numeric precision.
func DecodeItem(data []byte) (Item, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var it Item
	if err := dec.Decode(&it); err != nil {
		return nil, err
	}
	return it, nil
}
