package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/beesaferoot/ams-store/internal/app"
)

func searchCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Full-text search",
	}
	entity := func(use, short string, run func(ctx context.Context, a *app.App, term string) (interface{}, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <term>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.with(cmd, func(a *app.App) error {
					v, err := run(cmd.Context(), a, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd, v)
				})
			},
		}
	}
	cmd.AddCommand(
		entity("apartments", "Search apartment names and descriptions", func(ctx context.Context, a *app.App, term string) (interface{}, error) {
			return a.Search.Apartments(ctx, term)
		}),
		entity("complaints", "Search complaints", func(ctx context.Context, a *app.App, term string) (interface{}, error) {
			return a.Search.Complaints(ctx, term)
		}),
		entity("announcements", "Search active announcements", func(ctx context.Context, a *app.App, term string) (interface{}, error) {
			return a.Search.Announcements(ctx, term)
		}),
		entity("users", "Search active users by name or email", func(ctx context.Context, a *app.App, term string) (interface{}, error) {
			return a.Search.Users(ctx, term)
		}),
		entity("all", "Search every entity", func(ctx context.Context, a *app.App, term string) (interface{}, error) {
			return a.Search.Global(ctx, term)
		}),
	)
	return cmd
}
