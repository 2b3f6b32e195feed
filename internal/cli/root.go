// Package cli implements the ams command line.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/ams-store/internal/app"
	"github.com/beesaferoot/ams-store/internal/config"
	"github.com/beesaferoot/ams-store/internal/logging"
	"github.com/beesaferoot/ams-store/migration"
	"github.com/beesaferoot/ams-store/migration/commands"
)

// Loader produces the configuration for a command run.
type Loader func(envFile string) (*config.Config, error)

// LoadConfig reads configuration from the environment and envFile, if set.
func LoadConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

// NewRootCmd builds the ams command tree.
func NewRootCmd(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "ams",
		Short:         "Apartment management store: schema, reports and search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env", "", "Path to an env file (default .env when present)")

	r := &runner{load: load}
	root.AddCommand(
		commands.MigrateCmd(r.migrator),
		reportCmd(r),
		paymentCmd(r),
		residentCmd(r),
		searchCmd(r),
	)
	return root
}

type runner struct {
	load Loader
}

// with opens the application for the duration of fn.
func (r *runner) with(cmd *cobra.Command, fn func(*app.App) error) error {
	a, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (r *runner) open(cmd *cobra.Command) (*app.App, error) {
	envFile, _ := cmd.Flags().GetString("env")
	cfg, err := r.load(envFile)
	if err != nil {
		return nil, err
	}
	log := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return app.New(cmd.Context(), cfg, log)
}

func (r *runner) migrator(cmd *cobra.Command) (*migration.Migrator, func(), error) {
	a, err := r.open(cmd)
	if err != nil {
		return nil, nil, err
	}
	return a.Migrator(), func() { a.Close() }, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the command line against the process environment.
func Execute() int {
	if err := NewRootCmd(LoadConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
