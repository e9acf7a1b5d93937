package pipeline

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StepConfig describes a step of a configuration file.
type StepConfig struct {
	Name string `yaml:"name" jsonschema:"required" jsonschema_description:"Unique step name"`
	// Class is the registered step function. It defaults to Name.
	Class       string   `yaml:"class" jsonschema_description:"Registered step function, the step name if empty"`
	After       []string `yaml:"after" jsonschema_description:"Steps this step depends on, the previous step if empty"`
	Skip        bool     `yaml:"skip"`
	Parameters  Params   `yaml:"parameters"`
	PreHooks    []string `yaml:"pre_hooks" jsonschema_description:"Registered step functions run before the step"`
	PostHooks   []string `yaml:"post_hooks" jsonschema_description:"Registered step functions run after the step"`
	SaveResults bool     `yaml:"save_results" jsonschema_description:"Save every model once the step is done"`
	Suffix      string   `yaml:"suffix" jsonschema_description:"Suffix of saved files, the step name if empty"`
}

// Config is a pipeline configuration file.
type Config struct {
	Name      string       `yaml:"name" jsonschema:"required"`
	OutputDir string       `yaml:"output_dir" jsonschema_description:"Directory saved results are written to"`
	Steps     []StepConfig `yaml:"steps"`
}

// ConfigSchema returns the JSON schema of configuration files.
func ConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(&Config{})
	schema.Title = "stpipe pipeline configuration"

	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode configuration schema")
	}

	return raw, nil
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "configuration %s", path)
	}

	return cfg, nil
}

// ParseConfig decodes a configuration. Unknown fields are rejected.
func ParseConfig(raw []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s", err)
	}
	if cfg.Name == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "name must be set")
	}
	for i, st := range cfg.Steps {
		if st.Name == "" {
			return nil, errors.Wrapf(ErrInvalidConfig, "step %d has no name", i)
		}
	}

	return cfg, nil
}

// Build creates the configured pipeline. Step classes and hooks are looked
// up in the registry of the pipeline. opts are applied after the
// configured output directory.
func (c *Config) Build(opts ...PipelineOption) (*Pipeline, error) {
	pipe, err := New(c.Name, append([]PipelineOption{WithOutputDir(c.OutputDir)}, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, st := range c.Steps {
		class := st.Class
		if class == "" {
			class = st.Name
		}
		fn, err := pipe.registry.Lookup(class)
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", st.Name)
		}

		stepOpts := []StepOption{
			StepClass(class),
			StepSkip(st.Skip),
			StepParameters(st.Parameters),
			StepPreHooks(st.PreHooks...),
			StepPostHooks(st.PostHooks...),
		}
		if len(st.After) > 0 {
			stepOpts = append(stepOpts, StepAfter(st.After...))
		}
		if st.SaveResults {
			stepOpts = append(stepOpts, StepSaveResults(st.Suffix))
		}
		err = pipe.AddStep(st.Name, fn, stepOpts...)
		if err != nil {
			return nil, err
		}
	}

	return pipe, nil
}
