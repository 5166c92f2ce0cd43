package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sandevgo/dazi/internal/config"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/env"
	"github.com/sandevgo/dazi/pkg/log"
	"github.com/spf13/cobra"
)

var (
	initAPIBase string
	initAPIKey  string
)

// secrets are kept in <runtime>/.env rather than config.json.
type secrets struct {
	APIKey string `env:"DAZI_API_KEY"`
}

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create the runtime directory with a config and the default persona",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		if err := initRuntime(runtimePath, cmd.OutOrStdout()); err != nil {
			return err
		}

		logger.Info().Str("path", runtimePath).Msg("runtime directory initialized")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initAPIBase, "api-base", config.DefaultAPIBase, "OpenAI-compatible endpoint")
	initCmd.Flags().StringVar(&initAPIKey, "api-key", "", "API key, stored in <runtime>/.env")
	rootCmd.AddCommand(initCmd)
}

func initRuntime(runtimePath string, out io.Writer) error {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return fmt.Errorf("%w: create runtime directory: %v", core.ErrConfiguration, err)
	}

	cfg := config.NewDefaultConfig(runtimePath)
	cfg.APIBase = initAPIBase
	if modelFlag != "" {
		cfg.Model = modelFlag
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	files := []struct {
		path    string
		content []byte
	}{
		{path: cfg.GetConfigPath(), content: append(data, '\n')},
		{path: cfg.GetPromptPath(), content: []byte(config.DefaultPersona)},
	}
	for _, f := range files {
		path := f.path
		created, err := writeIfMissing(path, f.content)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "created %s\n", path)
		} else {
			fmt.Fprintf(out, "kept existing %s\n", path)
		}
	}

	if initAPIKey != "" {
		path := cfg.GetEnvPath()
		if err := env.WriteFile(path, &secrets{APIKey: initAPIKey}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(out, "saved api key to %s\n", path)
	}

	fmt.Fprintf(out, "run `%s` to start chatting\n", core.AppName)
	return nil
}

func writeIfMissing(path string, content []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return false, err
	}
	return true, nil
}
