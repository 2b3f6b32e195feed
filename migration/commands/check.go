package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errDrift = errors.New("schema drift detected")

// CheckCmd compares the models with the live schema.
func CheckCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report tables and columns the database is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeFn, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			drift, err := m.Drift()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(drift) == 0 {
				fmt.Fprintln(out, "Schema is up to date")
				return nil
			}
			for _, d := range drift {
				if d.Missing {
					fmt.Fprintf(out, "%s: table missing\n", d.Table)
					continue
				}
				fmt.Fprintf(out, "%s: missing columns %v\n", d.Table, d.MissingColumns)
			}
			return errDrift
		},
	}
}
