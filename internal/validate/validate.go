package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/five82/thermo/internal/logging"
)

// Sentinels substituted for rejected values.
const (
	OutOfRange = "N/A"
	Invalid    = "Error"
)

// Field names in the /api/estado payload.
const (
	FieldAmbient   = "temperature_ambient"
	FieldTarget    = "temperature_target"
	FieldBattery   = "battery_charge"
	FieldIndicator = "indicator"
	FieldDevice    = "device_state"
)

// Kind selects how a FieldRule is applied.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindEnum    Kind = "enum"
)

// FieldRule constrains a single payload field.
type FieldRule struct {
	Kind   Kind     `toml:"kind"`
	Min    float64  `toml:"min"`
	Max    float64  `toml:"max"`
	Values []string `toml:"values"`
}

// Rules maps field names to their rule.
type Rules map[string]FieldRule

// DefaultRules returns the rules for the stock thermostat payload.
func DefaultRules() Rules {
	return Rules{
		FieldAmbient:   {Kind: KindNumeric, Min: 0, Max: 50},
		FieldTarget:    {Kind: KindNumeric, Min: 15, Max: 30},
		FieldBattery:   {Kind: KindNumeric, Min: 0, Max: 5},
		FieldIndicator: {Kind: KindEnum, Values: []string{"NORMAL", "BAJO", "CRITICO"}},
		FieldDevice:    {Kind: KindEnum, Values: []string{"apagado", "encendido", "enfriando", "calentando"}},
	}
}

// Check reports whether the rule is usable.
func (r FieldRule) Check() error {
	switch r.Kind {
	case KindNumeric:
		if r.Min > r.Max {
			return fmt.Errorf("min %v greater than max %v", r.Min, r.Max)
		}
	case KindEnum:
		if len(r.Values) == 0 {
			return fmt.Errorf("enum rule has no values")
		}
	default:
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
	return nil
}

func (r FieldRule) expected() string {
	if r.Kind == KindEnum {
		return strings.Join(r.Values, "|")
	}
	return fmt.Sprintf("number in [%v, %v]", r.Min, r.Max)
}

// ValidationError records a rejected field.
type ValidationError struct {
	Field    string
	Expected string
	Received any
	Sentinel string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: expected %s, received %v", e.Field, e.Expected, e.Received)
}

// Result is a payload after validation.
type Result struct {
	Fields map[string]any
	Issues []*ValidationError
}

// HasErrors reports whether any field was replaced by a sentinel.
func (r Result) HasErrors() bool {
	return len(r.Issues) > 0
}

// Validate applies rules to payload. Fields without a rule pass through and
// ruled fields missing from the payload are rejected as invalid. Each
// rejection is logged at WARN.
func Validate(payload map[string]any, rules Rules, logger logging.Logger) Result {
	res := Result{Fields: make(map[string]any, len(payload)+len(rules))}
	for k, v := range payload {
		if _, ruled := rules[k]; !ruled {
			res.Fields[k] = v
		}
	}

	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := rules[name]
		raw := payload[name]
		value, sentinel := Field(rule, raw)
		res.Fields[name] = value
		if sentinel == "" {
			continue
		}
		issue := &ValidationError{Field: name, Expected: rule.expected(), Received: raw, Sentinel: sentinel}
		res.Issues = append(res.Issues, issue)
		logger.Warn("field rejected",
			"field", name,
			"expected", issue.Expected,
			"received", fmt.Sprintf("%v", raw),
			"sentinel", sentinel,
		)
	}
	return res
}

// Field validates a single value. It returns the value to display and the
// sentinel used, or "" when the value was accepted.
func Field(rule FieldRule, value any) (any, string) {
	switch rule.Kind {
	case KindNumeric:
		n, ok := Number(value)
		if !ok {
			return Invalid, Invalid
		}
		if n < rule.Min || n > rule.Max {
			return OutOfRange, OutOfRange
		}
		return value, ""
	case KindEnum:
		if value == nil {
			return Invalid, Invalid
		}
		got := strings.ToUpper(fmt.Sprint(value))
		if !slices.ContainsFunc(rule.Values, func(v string) bool { return strings.ToUpper(v) == got }) {
			return Invalid, Invalid
		}
		return got, ""
	default:
		return value, ""
	}
}

// Number converts a decoded JSON value to a finite float64. Strings are not
// numbers, even when they look like one.
func Number(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case nil, bool, string:
		return 0, false
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
