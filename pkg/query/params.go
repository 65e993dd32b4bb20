package query

import (
	"math"
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// Params are the decoded request parameters. Values are strings, numbers,
// string slices (repeated query keys) or nested maps. Params are never written.
type Params map[string]any

// FromValues converts url.Values into Params. Keys with a single value map to a
// string, repeated keys to a []string.
func FromValues(values url.Values) Params {
	p := make(Params, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			p[k] = v[0]
		default:
			p[k] = v
		}
	}
	return p
}

// String returns the value of key when it is a string.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Number returns the value of key when it holds a numeric type.
func (p Params) Number(key string) (any, bool) {
	v, ok := p[key]
	if !ok || !isNumber(v) {
		return nil, false
	}
	return v, true
}

// Truthy reports whether key carries a value that enables a flag.
func (p Params) Truthy(key string) bool {
	switch v := p[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case []string:
		return len(v) > 0
	default:
		if isNumber(v) {
			return cast.ToFloat64(v) != 0
		}
		return true
	}
}

// Nested returns the parameters namespaced under ns: either a nested map
// stored at p[ns], or every "ns.<key>" entry with the prefix removed.
func (p Params) Nested(ns string) Params {
	switch v := p[ns].(type) {
	case Params:
		return v
	case map[string]any:
		return Params(v)
	case map[string]string:
		n := make(Params, len(v))
		for k, s := range v {
			n[k] = s
		}
		return n
	}

	prefix := ns + "."
	var n Params
	for k, v := range p {
		if !strings.HasPrefix(k, prefix) || len(k) == len(prefix) {
			continue
		}
		if n == nil {
			n = Params{}
		}
		n[strings.TrimPrefix(k, prefix)] = v
	}
	return n
}

// int parses key as an integer. ok is false when the key is absent or does
// not hold a finite number.
func (p Params) int(key string) (int, bool) {
	v, found := p[key]
	if !found || v == nil {
		return 0, false
	}
	if s, isString := v.(string); isString {
		if s = strings.TrimSpace(s); s == "" {
			return 0, false
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
