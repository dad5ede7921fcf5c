package alpaca

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// MissingParamError reports a required parameter absent from the request.
type MissingParamError struct {
	Name string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing parameter %q", e.Name)
}

// BadParamError reports a parameter whose value could not be parsed.
type BadParamError struct {
	Name  string
	Value string
	Err   error
}

func (e *BadParamError) Error() string {
	return fmt.Sprintf("parameter %s=%q: %v", e.Name, e.Value, e.Err)
}

func (e *BadParamError) Unwrap() error { return e.Err }

type paramEntry struct {
	key   string // lowercased
	value string
}

// Params holds the decoded parameters of one Alpaca request: the query
// string of a GET or the urlencoded body of a PUT. Names are matched
// case-insensitively and each parameter may be extracted at most once;
// whatever a handler leaves behind is reported by FinishExtraction.
type Params struct {
	entries []paramEntry
}

// ParseParams decodes an application/x-www-form-urlencoded string. Insertion
// order is preserved; a repeated name keeps its first position and last
// value.
func ParseParams(raw string) (*Params, error) {
	p := &Params{}
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("parameter name %q: %w", k, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		p.set(strings.ToLower(key), val)
	}
	return p, nil
}

func (p *Params) set(key, value string) {
	for i := range p.entries {
		if p.entries[i].key == key {
			p.entries[i].value = value
			return
		}
	}
	p.entries = append(p.entries, paramEntry{key: key, value: value})
}

// Len returns the number of parameters not yet extracted.
func (p *Params) Len() int { return len(p.entries) }

// take removes and returns the raw value for name.
func (p *Params) take(name string) (string, bool) {
	key := strings.ToLower(name)
	for i, e := range p.entries {
		if e.key == key {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return e.value, true
		}
	}
	return "", false
}

// MaybeString extracts name if present.
func (p *Params) MaybeString(name string) (string, bool) {
	return p.take(name)
}

// ExtractString extracts a required string parameter.
func (p *Params) ExtractString(name string) (string, error) {
	v, ok := p.take(name)
	if !ok {
		return "", &MissingParamError{Name: name}
	}
	return v, nil
}

// ExtractInt32 extracts a required 32-bit integer parameter.
func (p *Params) ExtractInt32(name string) (int32, error) {
	v, ok, err := p.MaybeInt32(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &MissingParamError{Name: name}
	}
	return v, nil
}

// MaybeInt32 extracts a 32-bit integer parameter if present.
func (p *Params) MaybeInt32(name string) (int32, bool, error) {
	raw, ok := p.take(name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false, &BadParamError{Name: name, Value: raw, Err: errors.Unwrap(err)}
	}
	return int32(n), true, nil
}

// ExtractUint32 extracts a required unsigned 32-bit integer parameter.
func (p *Params) ExtractUint32(name string) (uint32, error) {
	v, ok, err := p.MaybeUint32(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &MissingParamError{Name: name}
	}
	return v, nil
}

// MaybeUint32 extracts an unsigned 32-bit integer parameter if present.
func (p *Params) MaybeUint32(name string) (uint32, bool, error) {
	raw, ok := p.take(name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, &BadParamError{Name: name, Value: raw, Err: errors.Unwrap(err)}
	}
	return uint32(n), true, nil
}

// ExtractFloat64 extracts a required floating-point parameter.
func (p *Params) ExtractFloat64(name string) (float64, error) {
	v, ok, err := p.MaybeFloat64(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &MissingParamError{Name: name}
	}
	return v, nil
}

// MaybeFloat64 extracts a floating-point parameter if present.
func (p *Params) MaybeFloat64(name string) (float64, bool, error) {
	raw, ok := p.take(name)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, &BadParamError{Name: name, Value: raw, Err: errors.Unwrap(err)}
	}
	return f, true, nil
}

// ExtractBool extracts a required boolean parameter. The wire forms are
// "true" and "false" in any casing; nothing else parses.
func (p *Params) ExtractBool(name string) (bool, error) {
	v, ok, err := p.MaybeBool(name)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, &MissingParamError{Name: name}
	}
	return v, nil
}

// MaybeBool extracts a boolean parameter if present.
func (p *Params) MaybeBool(name string) (bool, bool, error) {
	raw, ok := p.take(name)
	if !ok {
		return false, false, nil
	}
	switch strings.ToLower(raw) {
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	}
	return false, false, &BadParamError{Name: name, Value: raw, Err: errors.New(`must be "true" or "false"`)}
}

// FinishExtraction logs any parameters the handler did not consume and
// drops them. Unrecognized parameters are tolerated, never fatal.
func (p *Params) FinishExtraction(log zerolog.Logger) {
	for _, e := range p.entries {
		log.Warn().Str("param", e.key).Str("value", e.value).Msg("ignoring unrecognized parameter")
	}
	p.entries = nil
}

// FormatBool renders a boolean in the canonical request casing.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
