// Package cli implements the stpipe command line.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// app holds what every command shares.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	logLevel string
	logger   *slog.Logger
}

// NewRootCommand returns the stpipe command.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	rc := &cobra.Command{
		Use:   "stpipe",
		Short: "Run calibration pipelines over model associations",
		Long: `stpipe runs pipelines of registered steps over the models of an
association, and inspects or copies associations.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = newLogger(a.stderr, level)

			return nil
		},
	}
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	rc.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "one of debug, info, warn or error")

	rc.AddCommand(newRunCommand(a))
	rc.AddCommand(newListCommand(a))
	rc.AddCommand(newGroupsCommand(a))
	rc.AddCommand(newSaveCommand(a))
	rc.AddCommand(newPlanCommand(a))
	rc.AddCommand(newSchemaCommand(a))

	return rc
}
