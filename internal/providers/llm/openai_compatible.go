package llm

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
)

const (
	DefaultCompletionTimeout = 120 * time.Second
	DefaultListTimeout       = 30 * time.Second

	completionsPath = "/chat/completions"
	modelsPath      = "/models"
)

// OpenAICompatible talks to any endpoint implementing the OpenAI chat completions
// and model listing API.
type OpenAICompatible struct {
	baseProvider
	completionTimeout time.Duration
	listTimeout       time.Duration

	mu    sync.RWMutex
	model string
}

type OpenAICompatibleConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	HTTPClient        *http.Client
	CompletionTimeout time.Duration
	ListTimeout       time.Duration
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = DefaultCompletionTimeout
	}
	if cfg.ListTimeout <= 0 {
		cfg.ListTimeout = DefaultListTimeout
	}
	return &OpenAICompatible{
		baseProvider:      newBaseProvider(cfg.HTTPClient, cfg.BaseURL, cfg.APIKey),
		completionTimeout: cfg.CompletionTimeout,
		listTimeout:       cfg.ListTimeout,
		model:             cfg.Model,
	}
}

func (o *OpenAICompatible) GetModel() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.model
}

func (o *OpenAICompatible) SetModel(model string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.model = model
}

// Complete sends the system prompt and the user text as a single non-streaming
// request and returns the assistant text of the first choice.
func (o *OpenAICompatible) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.completionTimeout)
	defer cancel()

	model := o.GetModel()
	if model == "" {
		return "", fmt.Errorf("%w: no model selected", core.ErrConfiguration)
	}

	payload := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		Stream: false,
	}

	log.FromCtx(ctx).Debug().
		Str("model", model).
		Int("system_len", len(systemPrompt)).
		Msg("sending chat completion")

	data, err := o.doRequest(ctx, http.MethodPost, completionsPath, payload, o.authHeaders())
	if err != nil {
		return "", err
	}

	return parseCompletion(data)
}

// Models lists the identifiers under data[].id, skipping entries without an id.
func (o *OpenAICompatible) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.listTimeout)
	defer cancel()

	data, err := o.doRequest(ctx, http.MethodGet, modelsPath, nil, o.authHeaders())
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	return parseModels(data)
}

func parseCompletion(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: %s", core.ErrMalformedResponse, string(data))
	}

	content := gjson.GetBytes(data, "choices.0.message.content")
	if content.Type != gjson.String {
		return "", fmt.Errorf("%w: %s", core.ErrMalformedResponse, string(data))
	}
	return content.String(), nil
}

func parseModels(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: decode models response: %s", core.ErrMalformedResponse, string(data))
	}

	ids := gjson.GetBytes(data, "data.#.id").Array()
	models := make([]string, 0, len(ids))
	for _, id := range ids {
		if id.String() == "" {
			continue
		}
		models = append(models, id.String())
	}
	return models, nil
}
