package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-stpipe/pkg/pipeline"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered steps",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			for _, name := range pipeline.Registered() {
				_, err := fmt.Fprintln(a.stdout, name)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}
