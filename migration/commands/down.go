package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func DownCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeDB, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			reverted, err := m.Down(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s\n", reverted.Name)
			return nil
		},
	}
}
