package solid

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds applied to every dimension.
const (
	MinDimension = 0.1
	MaxDimension = 10000
)

// ErrMissingParameter is returned when a required key is absent.
var ErrMissingParameter = errors.New("missing parameter")

// Params holds named dimensions such as s, r, t or t_alas.
type Params map[string]float64

// Must returns the value for key or panics. Riggers call it on params that
// already passed CheckSchema, so a panic means a programming error.
func (p Params) Must(key string) float64 {
	v, ok := p[key]
	if !ok {
		panic(fmt.Sprintf("solid: %s: %q", ErrMissingParameter, key))
	}
	return v
}

// Clone returns a copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Clamp limits x to [MinDimension, MaxDimension]. NaN becomes the minimum.
func Clamp(x float64) float64 {
	switch {
	case math.IsNaN(x), x < MinDimension:
		return MinDimension
	case x > MaxDimension:
		return MaxDimension
	}
	return x
}

// Validate converts raw user input into a dimension in
// [MinDimension, MaxDimension]. Anything that does not parse as a number
// yields MinDimension. Strings are read by their leading numeric prefix,
// so "12cm" is 12.
func Validate(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return Clamp(v)
	case float32:
		return Clamp(float64(v))
	case int:
		return Clamp(float64(v))
	case int64:
		return Clamp(float64(v))
	case json.Number:
		return Validate(v.String())
	case string:
		return Clamp(parseLeadingFloat(v))
	default:
		return MinDimension
	}
}

// parseLeadingFloat parses the longest decimal prefix of s, returning NaN
// when there is none. The accepted grammar is
// [+-]?(digits[.digits]|.digits)([eE][+-]?digits)? or a signed
// "Infinity"; Go-only spellings such as "inf", hex floats or digit
// underscores are not numbers here.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	n := numericPrefix(s)
	if n == 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:n], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// numericPrefix returns the length of the decimal number at the start of
// s, or 0.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return i + len("Infinity")
	}
	start := i
	i = skipDigits(s, i)
	digits := i > start
	if i < len(s) && s[i] == '.' {
		j := skipDigits(s, i+1)
		if j > i+1 || digits {
			digits = true
			i = j
		}
	}
	if !digits {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := skipDigits(s, j); k > j {
			i = k
		}
	}
	return i
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// CheckSchema reports the first schema key missing from p.
func CheckSchema(t Type, p Params) error {
	if !t.Valid() {
		return fmt.Errorf("solid: %d: %w", int(t), ErrUnknownShape)
	}
	for _, ps := range Schema(t) {
		if _, ok := p[ps.Key]; !ok {
			return fmt.Errorf("solid: %s needs %q: %w", t, ps.Key, ErrMissingParameter)
		}
	}
	return nil
}

// Normalize validates every schema key of raw and returns clean params.
// Keys outside the schema are dropped.
func Normalize(t Type, raw map[string]any) (Params, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("solid: %d: %w", int(t), ErrUnknownShape)
	}
	out := make(Params)
	for _, ps := range Schema(t) {
		v, ok := raw[ps.Key]
		if !ok {
			return nil, fmt.Errorf("solid: %s needs %q: %w", t, ps.Key, ErrMissingParameter)
		}
		out[ps.Key] = Validate(v)
	}
	return out, nil
}

// Sanitize clamps every value of p in place and returns it.
func (p Params) Sanitize() Params {
	for k, v := range p {
		p[k] = Clamp(v)
	}
	return p
}
