package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-stpipe/pkg/pipeline"
	"github.com/askiada/go-stpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-stpipe/pkg/pipeline/measure"
	"github.com/askiada/go-stpipe/pkg/pipeline/model"
)

type runCommand struct {
	*app
	lib        libraryFlags
	outputDir  string
	parameters string
	overrides  []string
	dot        string
	timings    bool
}

func newRunCommand(a *app) *cobra.Command {
	rc := &runCommand{app: a}
	ccmd := &cobra.Command{
		Use:   "run <config> <asn>",
		Short: "Run a pipeline configuration over an association",
		Long: `
Runs the pipeline described by a YAML configuration file over the models of
an association. Step parameters given with --set take precedence over the
configuration file, which takes precedence over the parameter file.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return rc.run(c, args[0], args[1])
		},
	}

	flags := ccmd.Flags()
	rc.lib.register(flags)
	flags.StringVarP(&rc.outputDir, "output-dir", "o", "", "directory saved results are written to, overrides the configuration")
	flags.StringVar(&rc.parameters, "parameters", "", "YAML file of reference parameters per step")
	flags.StringArrayVar(&rc.overrides, "set", nil, "step parameter override of the form step.key=value")
	flags.StringVar(&rc.dot, "dot", "", "write the pipeline graph with timings to this DOT file")
	flags.BoolVar(&rc.timings, "timings", false, "print the step timings once the pipeline is done")

	return ccmd
}

func (rc *runCommand) run(c *cobra.Command, configPath, asnPath string) error {
	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		return err
	}

	overrides := pipeline.Overrides{}
	for _, o := range rc.overrides {
		err := overrides.Set(o)
		if err != nil {
			return err
		}
	}

	opts := []pipeline.PipelineOption{pipeline.WithLogger(rc.logger)}
	if rc.outputDir != "" {
		opts = append(opts, pipeline.WithOutputDir(rc.outputDir))
	}
	if rc.parameters != "" {
		provider, err := pipeline.NewYAMLProvider(rc.parameters)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithProvider(provider))
	}
	msr := measure.NewDefaultMeasure()
	if rc.dot != "" || rc.timings {
		features := []model.Feature{measure.PipelineMeasure(msr)}
		if rc.dot != "" {
			features = append(features, drawer.PipelineDrawer(drawer.NewDOTDrawer(rc.dot, drawer.WithTitle(cfg.Name)), msr))
		}
		opts = append(opts, pipeline.WithFeatures(features...))
	}
	pipe, err := cfg.Build(opts...)
	if err != nil {
		return err
	}
	for name := range overrides {
		if _, err := pipe.Step(name); err != nil {
			return errors.Wrap(err, "--set")
		}
	}

	lib, err := rc.lib.open(asnPath, rc.logger)
	if err != nil {
		return err
	}
	defer func() {
		cleanupErr := lib.Cleanup()
		if cleanupErr != nil {
			rc.logger.Warn("unable to remove temporary models", "error", cleanupErr)
		}
	}()

	err = pipe.Run(c.Context(), lib, pipeline.RunOverrides(overrides))
	if err != nil {
		return err
	}
	if rc.timings {
		measure.Report(rc.stdout, msr)
	}

	return nil
}
