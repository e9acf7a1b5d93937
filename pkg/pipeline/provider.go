package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParameterProvider supplies step parameters selected from the CRDS
// parameters of the library a pipeline runs on.
type ParameterProvider interface {
	StepParameters(ctx context.Context, observatory string, crdsParams map[string]any, step string) (Params, error)
}

type providerEntry struct {
	Match      map[string]any `yaml:"match"`
	Parameters Params         `yaml:"parameters"`
}

type providerFile struct {
	Observatory string                     `yaml:"observatory"`
	Steps       map[string][]providerEntry `yaml:"steps"`
}

// YAMLProvider serves step parameters from a YAML file:
//
//	observatory: jwst
//	steps:
//	  flag:
//	    - match: {meta.exptype: science}
//	      parameters: {threshold: 3}
//	    - parameters: {threshold: 5}
//
// The first entry of a step whose match values all equal the CRDS
// parameters, ignoring case, is used. An entry without match always matches.
type YAMLProvider struct {
	file providerFile
}

// NewYAMLProvider reads the provider file at path.
func NewYAMLProvider(path string) (*YAMLProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	return ParseYAMLProvider(raw)
}

// ParseYAMLProvider decodes a provider file.
func ParseYAMLProvider(raw []byte) (*YAMLProvider, error) {
	p := &YAMLProvider{}
	err := yaml.Unmarshal(raw, &p.file)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "parameter file: %s", err)
	}

	return p, nil
}

// StepParameters returns the parameters of the first matching entry of
// step, or nil when none matches.
func (p *YAMLProvider) StepParameters(_ context.Context, observatory string, crdsParams map[string]any, step string) (Params, error) {
	if p.file.Observatory != "" && !strings.EqualFold(p.file.Observatory, observatory) {
		return nil, errors.Wrapf(ErrInvalidConfig, "parameter file is for %s, library is for %s", p.file.Observatory, observatory)
	}
	for _, entry := range p.file.Steps[step] {
		if matches(entry.Match, crdsParams) {
			return entry.Parameters, nil
		}
	}

	return nil, nil
}

func matches(match, crdsParams map[string]any) bool {
	for k, want := range match {
		got, ok := crdsParams[k]
		if !ok || !strings.EqualFold(fmt.Sprint(got), fmt.Sprint(want)) {
			return false
		}
	}

	return true
}

var _ ParameterProvider = (*YAMLProvider)(nil)
