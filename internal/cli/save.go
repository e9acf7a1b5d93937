package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSaveCommand(a *app) *cobra.Command {
	lf := &libraryFlags{}
	ccmd := &cobra.Command{
		Use:   "save <asn> <dir>",
		Short: "Copy the models of an association and a new association to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			lib, err := lf.open(args[0], a.logger)
			if err != nil {
				return err
			}
			defer lib.Cleanup() //nolint:errcheck

			asnPath, err := lib.Save(args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, asnPath)

			return err
		},
	}
	lf.register(ccmd.Flags())

	return ccmd
}
