package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func StatusCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			m, closeDB, err := open(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			status, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			fmt.Fprintf(out, "%-16s  %-30s  %-8s  %-24s\n", "Version", "Name", "Status", "Applied At")
			for _, s := range status {
				state, at := "Pending", ""
				if s.Applied {
					state, at = "Applied", s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s  %-24s\n", s.Version, s.Name, state, at)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print status as JSON")

	return cmd
}
