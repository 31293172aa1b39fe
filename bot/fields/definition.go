package fields

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"DnsBot/internal/lib/validate"
)

// Kind selects the input strategy used to collect a field.
type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindSelect  Kind = "select"
	KindBoolean Kind = "boolean"
)

// Option is one choice of a select field.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Definition declares one field of an entity: how to label it, how to ask
// for it and how to check the answer.
type Definition struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Options []Option `json:"options,omitempty"`
	// Path locates a nested value, e.g. ["data", "priority"]. Empty means
	// the value lives under Key at the top level.
	Path []string `json:"path,omitempty"`
	// Rule is a validator tag such as "required,ipv4".
	Rule string `json:"rule,omitempty"`
	// Validate runs after Rule and may replace the parsed value.
	Validate func(v any) (any, error) `json:"-"`
	Required bool                     `json:"required"`
	Default  any                      `json:"default,omitempty"`
	Hint     string                   `json:"hint,omitempty"`
}

// ValidationError is a rejected answer, shown to the operator as is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Location returns the path of the value inside the entity.
func (d Definition) Location() []string {
	if len(d.Path) > 0 {
		return d.Path
	}
	return []string{d.Key}
}

// Check verifies the definition's own invariants.
func (d Definition) Check() error {
	if d.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidDefinition)
	}
	switch d.Kind {
	case KindText, KindNumber, KindBoolean:
		if len(d.Options) > 0 {
			return fmt.Errorf("%w: %s: options are only allowed on select fields", ErrInvalidDefinition, d.Key)
		}
	case KindSelect:
		if len(d.Options) == 0 {
			return fmt.Errorf("%w: %s: select field without options", ErrInvalidDefinition, d.Key)
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidDefinition, d.Key, d.Kind)
	}
	for _, segment := range d.Path {
		if segment == "" {
			return fmt.Errorf("%w: %s: empty path segment", ErrInvalidDefinition, d.Key)
		}
	}
	return nil
}

// Parse coerces a raw answer to the field's type and validates it.
// Text and numbers arrive as typed strings, select and boolean answers as
// the option value.
func (d Definition) Parse(raw any) (any, error) {
	var (
		value any
		err   error
	)
	switch d.Kind {
	case KindText:
		value, err = d.parseText(raw)
	case KindNumber:
		value, err = d.parseNumber(raw)
	case KindSelect:
		value, err = d.parseSelect(raw)
	case KindBoolean:
		value, err = d.parseBoolean(raw)
	default:
		return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidDefinition, d.Key, d.Kind)
	}
	if err != nil {
		return nil, err
	}

	if err := validate.Var(value, d.Rule); err != nil {
		return nil, d.invalid(err.Error())
	}
	if d.Validate != nil {
		parsed, err := d.Validate(value)
		if err != nil {
			return nil, d.invalid(err.Error())
		}
		value = parsed
	}
	return value, nil
}

func (d Definition) parseText(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, d.invalid("expected text")
	}
	s = strings.TrimSpace(s)
	if s == "" && d.Required {
		return nil, d.invalid("value is required")
	}
	return s, nil
}

func (d Definition) parseNumber(raw any) (any, error) {
	var f float64
	switch v := raw.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, d.invalid("not a number")
		}
		f = parsed
	case int, int32, int64, float32, float64:
		f, _ = toFloat(v)
	default:
		return nil, d.invalid("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, d.invalid("must be a whole number")
	}
	// int(f) is undefined outside the int range
	if f < math.MinInt || f >= math.MaxInt {
		return nil, d.invalid("number is out of range")
	}
	return int(f), nil
}

func (d Definition) parseSelect(raw any) (any, error) {
	for _, opt := range d.Options {
		if Equal(opt.Value, raw) {
			return opt.Value, nil
		}
	}
	return nil, d.invalid("unknown option")
}

func (d Definition) parseBoolean(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "on", "1":
			return true, nil
		case "false", "no", "n", "off", "0":
			return false, nil
		}
	}
	return nil, d.invalid("expected yes or no")
}

func (d Definition) invalid(reason string) error {
	label := d.Label
	if label == "" {
		label = d.Key
	}
	return &ValidationError{Field: label, Reason: reason}
}
