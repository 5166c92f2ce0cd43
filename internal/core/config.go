package core

import "strings"

type ProviderConfig interface {
	GetAPIBase() string
	GetAPIKey() string
	GetModel() string
}

type MemoryConfig interface {
	GetMemoryPath() string
	GetMaxHistory() int
}

type PromptConfig interface {
	GetPromptPath() string
}

// AutoModel asks for the model to be picked from the provider's model list.
const AutoModel = "auto"

func IsAutoModel(model string) bool {
	model = strings.TrimSpace(model)
	return model == "" || strings.EqualFold(model, AutoModel)
}
