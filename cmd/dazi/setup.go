package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sandevgo/dazi/internal/config"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/internal/providers/llm"
	"github.com/sandevgo/dazi/internal/service/agent"
	"github.com/sandevgo/dazi/internal/service/memory"
	"github.com/sandevgo/dazi/internal/service/picker"
	"github.com/sandevgo/dazi/internal/storage/jsonfile"
	"github.com/sandevgo/dazi/internal/transport/cli"
	"github.com/sandevgo/dazi/pkg/log"
)

// loadConfig reads the layered configuration and applies command line overrides.
func loadConfig(ctx context.Context) (*config.AppConfig, error) {
	cfg, err := config.Load(ctx, configFile, os.Environ())
	if err != nil {
		return nil, err
	}
	if m := strings.TrimSpace(modelFlag); m != "" {
		cfg.Model = m
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveModel fixes the provider's model, asking the user when the
// configuration leaves the choice to the provider's model list.
func resolveModel(ctx context.Context, cfg *config.AppConfig, provider *llm.OpenAICompatible, out io.Writer) error {
	model, err := picker.Resolve(ctx, cfg.GetModel(), provider, picker.NewChooser(os.Stdin, os.Stdout))
	if err != nil {
		return err
	}
	if core.IsAutoModel(cfg.GetModel()) {
		fmt.Fprintf(out, "已选择模型：%s（可在 config.json 设置 model 字段固定指定）\n", model)
	}

	provider.SetModel(model)
	log.FromCtx(ctx).Debug().Str("model", model).Msg("model resolved")
	return nil
}

// NewChat wires provider, memory and the terminal front end for one session.
func NewChat(ctx context.Context, cfg *config.AppConfig) (*cli.ReadLine, error) {
	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := resolveModel(ctx, cfg, provider, os.Stdout); err != nil {
		return nil, err
	}

	persona, err := memory.LoadPersona(cfg)
	if err != nil {
		return nil, err
	}

	store := memory.NewStore(cfg, jsonfile.NewRecordFile(cfg.GetMemoryPath()))
	if _, err := store.Load(ctx); err != nil {
		return nil, err
	}

	ag := agent.NewAgent(provider, store, memory.NewSysPrompt(persona, store.MaxHistory()))

	return cli.NewReadLine(ag, cfg)
}
