package cli

import (
	"context"

	"github.com/spf13/cobra"

	"salescore/internal/migrate"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace stored data with the seed dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				if err := s.store.Reset(ctx); err != nil {
					return nil, err
				}
				s.logger.Info("storage reset to seed", "key", s.store.Key())
				return map[string]any{
					"key":     s.store.Key(),
					"version": migrate.CurrentVersion,
				}, nil
			})
		},
	}
}

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Load stored data, upgrading it to the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, s *session) (any, error) {
				applied := s.store.Applied()
				steps := make([]map[string]any, 0, len(applied))
				for _, a := range applied {
					steps = append(steps, map[string]any{"from": a.From, "to": a.To, "description": a.Description})
				}
				return map[string]any{
					"outcome":        s.store.Outcome(),
					"storedVersion":  s.store.StoredVersion(),
					"currentVersion": migrate.CurrentVersion,
					"applied":        steps,
				}, nil
			})
		},
	}
}
