package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Params holds the parameters of a step.
type Params map[string]any

// String returns the parameter key formatted as a string.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}

	return fmt.Sprint(v), true
}

// Bool returns the parameter key when it is a boolean.
func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)

	return v, ok
}

// mergeParams merges layers, later layers taking precedence. The result is a
// new map even when a single layer is given.
func mergeParams(layers ...Params) Params {
	res := Params{}
	for _, layer := range layers {
		for k, v := range layer {
			res[k] = v
		}
	}

	return res
}

// Overrides are run time parameters keyed by step name.
type Overrides map[string]Params

// Set parses an assignment of the form step.key=value and records it. The
// value is decoded as YAML so numbers and booleans keep their type.
func (o Overrides) Set(assignment string) error {
	target, raw, ok := strings.Cut(assignment, "=")
	if !ok {
		return errors.Wrapf(ErrInvalidConfig, "override %q is not of the form step.key=value", assignment)
	}
	step, key, ok := strings.Cut(target, ".")
	if !ok || step == "" || key == "" {
		return errors.Wrapf(ErrInvalidConfig, "override %q is not of the form step.key=value", assignment)
	}

	var value any
	err := yaml.Unmarshal([]byte(raw), &value)
	if err != nil {
		return errors.Wrapf(ErrInvalidConfig, "override %q: %s", assignment, err)
	}
	if value == nil && raw != "null" && raw != "~" {
		value = raw
	}
	if o[step] == nil {
		o[step] = Params{}
	}
	o[step][key] = value

	return nil
}
