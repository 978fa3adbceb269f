package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newSchemaCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the ReactPress tables and indexes",
		Long: `Apply the bundled schema for the configured driver.

Existing tables are left as they are, so the command is safe to re-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.db.ApplySchema(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("schema applied", zap.String("driver", a.db.Driver))
			return nil
		},
	}
}
