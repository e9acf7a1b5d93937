package pipeline

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultOutputTemplate names the files written when a step saves results.
const DefaultOutputTemplate = "{basename}_{suffix}{ext}"

var fieldPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template formats strings with named {field} replacements, allowing
// partial formatting: fields without a value are left in place so the
// result can be formatted again.
type Template struct {
	// Separator joins the values of fields absent from the format string,
	// which are appended to the result.
	Separator string
	// RemoveUnused drops fields without a value instead of keeping them.
	RemoveUnused bool
}

// NewTemplate returns a template appending unused values with "_".
func NewTemplate() Template {
	return Template{Separator: "_"}
}

// Format replaces the fields of format with values. Values with no field in
// format are appended in key order.
func (t Template) Format(format string, values map[string]string) string {
	used := make(map[string]struct{})
	res := fieldPattern.ReplaceAllStringFunc(format, func(field string) string {
		key := field[1 : len(field)-1]
		used[key] = struct{}{}
		if v, ok := values[key]; ok {
			return v
		}
		if t.RemoveUnused {
			return ""
		}

		return field
	})

	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := used[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := []string{res}
	for _, k := range keys {
		parts = append(parts, values[k])
	}

	return strings.Join(parts, t.Separator)
}

// OutputName returns the name a model saved by a step gets: the base name of
// filename with suffix inserted before the extension. A suffix already
// ending the name is not repeated. An empty suffix keeps the name.
func OutputName(filename, suffix string) string {
	base := filepath.Base(filename)
	if suffix == "" {
		return base
	}
	ext := filepath.Ext(base)
	basename := strings.TrimSuffix(base, ext)
	basename = strings.TrimSuffix(basename, "_"+suffix)

	return NewTemplate().Format(DefaultOutputTemplate, map[string]string{
		"basename": basename,
		"suffix":   suffix,
		"ext":      ext,
	})
}
