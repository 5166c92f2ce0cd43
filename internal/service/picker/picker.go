package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/log"
)

// Chooser asks the user to pick one of several models.
type Chooser interface {
	Choose(ctx context.Context, models []string) (string, error)
}

// Resolve returns the model to chat with. A configured model is used as is;
// an empty or "auto" value is resolved from the provider's model list.
func Resolve(ctx context.Context, configured string, lister core.ModelLister, chooser Chooser) (string, error) {
	if !core.IsAutoModel(configured) {
		return strings.TrimSpace(configured), nil
	}

	models, err := lister.Models(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrModelResolution, err)
	}

	log.FromCtx(ctx).Debug().Int("count", len(models)).Msg("models listed")

	switch len(models) {
	case 0:
		return "", fmt.Errorf("%w: the provider listed no models, set model in config.json", core.ErrModelResolution)
	case 1:
		return models[0], nil
	}

	model, err := chooser.Choose(ctx, models)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrModelResolution, err)
	}
	return model, nil
}
