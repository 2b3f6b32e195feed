package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func UpCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			m, closeDB, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			out := cmd.OutOrStdout()
			if dryRun {
				pending, err := m.Pending(cmd.Context())
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(out, "No pending migrations.")
					return nil
				}
				fmt.Fprintln(out, "Pending migrations:")
				for _, mr := range pending {
					fmt.Fprintf(out, "- %s (%s)\n", mr.Name, mr.Version)
				}
				return nil
			}

			applied, err := m.Up(cmd.Context())
			for _, mr := range applied {
				fmt.Fprintf(out, "Successfully applied migration: %s\n", mr.Name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}
