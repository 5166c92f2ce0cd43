package main

import (
	"fmt"

	"github.com/sandevgo/dazi/internal/providers/llm"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:          "models",
	Short:        "List the models the provider offers",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		provider, err := llm.NewProvider(ctx, cfg)
		if err != nil {
			return err
		}

		models, err := provider.Models(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, m := range models {
			fmt.Fprintf(out, "%d. %s\n", i+1, m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
