// Package brain adapts text generation backends to the single call the
// deliberation workflows need: prompt in, response text out.
package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentsociety/model"
)

// Brain is an agent's reasoning capability.
type Brain interface {
	Think(ctx context.Context, prompt string) (string, error)
}

// Func is a functional adapter for Brain.
type Func func(ctx context.Context, prompt string) (string, error)

// Think implements Brain.
func (f Func) Think(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Static returns a Brain that always answers with response.
func Static(response string) Brain {
	return Func(func(context.Context, string) (string, error) { return response, nil })
}

// Options configures FromModel.
type Options struct {
	// Instructions are sent as the system prompt with every request.
	Instructions string
	Stream       bool
}

type modelBrain struct {
	model model.Model
	opts  Options
}

// FromModel wraps a model.Model. The final (non-partial) response wins;
// when a backend only streams partial chunks they are concatenated.
func FromModel(m model.Model, optFns ...func(o *Options)) Brain {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &modelBrain{model: m, opts: opts}
}

func (b *modelBrain) Think(ctx context.Context, prompt string) (string, error) {
	respCh, errCh := b.model.Generate(ctx, model.Request{
		Instructions: b.opts.Instructions,
		Messages:     []model.Message{model.UserMessage(prompt)},
		Stream:       b.opts.Stream,
	})

	var (
		partial strings.Builder
		final   string
		done    bool
	)
	for resp := range respCh {
		if resp.Partial {
			partial.WriteString(resp.Text)
			continue
		}
		final, done = resp.Text, true
	}
	if err := <-errCh; err != nil {
		info := b.model.Info()
		return "", fmt.Errorf("brain: %s/%s: %w", info.Provider, info.Name, err)
	}
	if !done {
		return partial.String(), nil
	}
	return final, nil
}
