// Package values normalizes the raw form values that arrive from the
// configuration UI.
//
// The UI posts a flat string-keyed map whose value encodings are not
// consistent: numbers may arrive as JSON numbers or strings, and checkboxes
// may arrive as true, "true", "on", 1 or "1". This package is the single
// place where those encodings are interpreted. Everything downstream works
// with typed float64/bool/string values.
package values

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Values is the raw value map keyed by field id.
type Values map[string]any

// Has reports whether key is present with a non-nil value.
func (v Values) Has(key string) bool {
	raw, ok := v[key]
	return ok && raw != nil
}

// Float returns the numeric value stored under key, or def when the key is
// missing or the value does not parse as a finite number.
func (v Values) Float(key string, def float64) float64 {
	if f, ok := ParseFloat(v[key]); ok {
		return f
	}
	return def
}

// Bool reports whether the value stored under key means "checked".
func (v Values) Bool(key string) bool {
	return ParseBool(v[key])
}

// String returns the value under key as a trimmed string, or def when the
// key is missing or empty.
func (v Values) String(key, def string) string {
	raw, ok := v[key]
	if !ok || raw == nil {
		return def
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// Clone returns a shallow copy of the map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// With returns a copy of v with key set to val.
func (v Values) With(key string, val any) Values {
	out := v.Clone()
	out[key] = val
	return out
}

// ParseFloat interprets a raw value as a finite float64. Empty strings, nil,
// NaN, infinities and unparseable text report false.
func ParseFloat(raw any) (float64, bool) {
	switch x := raw.(type) {
	case nil:
		return 0, false
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, false
		}
		raw = strings.TrimSpace(x)
	case json.Number:
		raw = x.String()
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBool interprets a checkbox value. true, "true", "on", 1 and "1" mean
// checked (strings are matched case-insensitively); everything else,
// including nil, means unchecked.
func ParseBool(raw any) bool {
	switch x := raw.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "on", "1":
			return true
		}
		return false
	case json.Number:
		return x.String() == "1"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, err := cast.ToFloat64E(x)
		return err == nil && f == 1
	}
	return false
}
