package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/log"
)

// NewProvider creates the chat provider for the configured endpoint. The model may
// still be unresolved (auto-pick); it is set later with SetModel.
func NewProvider(ctx context.Context, cfg core.ProviderConfig) (*OpenAICompatible, error) {
	if strings.TrimSpace(cfg.GetAPIBase()) == "" {
		return nil, fmt.Errorf("%w: api_base is required", core.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.GetAPIKey()) == "" {
		return nil, fmt.Errorf("%w: api_key is required", core.ErrConfiguration)
	}

	model := strings.TrimSpace(cfg.GetModel())
	if core.IsAutoModel(model) {
		model = ""
	}

	log.FromCtx(ctx).Debug().
		Str("api_base", cfg.GetAPIBase()).
		Str("model", model).
		Msg("starting llm provider")

	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL: cfg.GetAPIBase(),
		APIKey:  cfg.GetAPIKey(),
		Model:   model,
	}), nil
}
