package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-stpipe/pkg/pipeline"
)

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of pipeline configuration files",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			raw, err := pipeline.ConfigSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(raw))

			return err
		},
	}
}
