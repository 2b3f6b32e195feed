package commands

import (
	"github.com/spf13/cobra"

	"github.com/beesaferoot/ams-store/migration"
)

// Opener connects to the database and returns a migrator together with a
// function releasing the connection.
type Opener func(cmd *cobra.Command) (*migration.Migrator, func(), error)

// MigrateCmd groups the schema commands.
func MigrateCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		UpCmd(open),
		DownCmd(open),
		StatusCmd(open),
		CheckCmd(open),
		ValidateCmd(),
	)
	return cmd
}
