package brain

import (
	"fmt"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentsociety/config"
	"github.com/hupe1980/agentsociety/model"
	"github.com/hupe1980/agentsociety/model/anthropic"
	"github.com/hupe1980/agentsociety/model/openai"
)

// NewModel builds the model.Model selected by cfg. Empty fields keep the
// provider's defaults. API keys come from the provider's usual environment
// variable.
func NewModel(cfg config.Brain) (model.Model, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = sdkanthropic.Model(cfg.Model)
			}
			if cfg.Temperature > 0 {
				o.Temperature = cfg.Temperature
			}
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
		}), nil
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			if cfg.Temperature > 0 {
				o.Temperature = cfg.Temperature
			}
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = cfg.MaxTokens
			}
		}), nil
	case "mock", "":
		name := cfg.Model
		if name == "" {
			name = "mock"
		}
		return model.NewMockModel(name), nil
	default:
		return nil, fmt.Errorf("brain: unknown provider %q", cfg.Provider)
	}
}

// New is NewModel wrapped by FromModel.
func New(cfg config.Brain, optFns ...func(o *Options)) (Brain, error) {
	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	return FromModel(m, optFns...), nil
}
