package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGroupsCommand(a *app) *cobra.Command {
	lf := &libraryFlags{}
	ccmd := &cobra.Command{
		Use:   "groups <asn>",
		Short: "Print the member indices of every exposure group",
		Long: `
Prints one line per group id with the indices of its members. Group ids
missing from the association are read from the member files.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			lib, err := lf.open(args[0], a.logger)
			if err != nil {
				return err
			}
			groups := lib.GroupIndices()
			for _, name := range lib.GroupNames() {
				_, err := fmt.Fprintf(a.stdout, "%s: %v\n", name, groups[name])
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
	lf.register(ccmd.Flags())

	return ccmd
}
