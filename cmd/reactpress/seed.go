package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reactpress/reactpress/internal/seed"
)

func newSeedCmd(v *viper.Viper) *cobra.Command {
	var (
		reset       bool
		applySchema bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample content",
		Long: `Load the sample admin user, categories, tags, a published post and an
About page in a single transaction.

Use --reset to remove all existing content first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer a.Close()

			if applySchema {
				if err := a.db.ApplySchema(cmd.Context()); err != nil {
					return err
				}
			}

			summary, err := seed.Run(cmd.Context(), a.repos, reset, a.logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Seeded %d user, %d categories, %d tags, %d post and %d page (removed %d rows)\n",
				summary.Users, summary.Categories, summary.Tags, summary.Posts, summary.Pages, summary.Removed)
			fmt.Fprintf(cmd.OutOrStdout(), "Admin login: %s\n", seed.AdminEmail)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Remove all existing content before seeding")
	cmd.Flags().BoolVar(&applySchema, "schema", false, "Apply the schema before seeding")
	return cmd
}
