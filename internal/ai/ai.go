// Package ai generates text for the assistant endpoints. A Generator is chosen
// once at startup from configuration.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/vixtube/internal/config"
	"github.com/mathieu-neron/vixtube/internal/metrics"
)

// Prompt is one system + user exchange.
type Prompt struct {
	System string
	User   string
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}

const (
	ProviderRemote = "remote"
	ProviderGenAI  = "genai"
	ProviderCanned = "canned"
)

// New builds the Generator named by cfg.Provider.
func New(ctx context.Context, cfg config.AIConfig, log zerolog.Logger) (Generator, error) {
	var (
		g   Generator
		err error
	)
	switch cfg.Provider {
	case ProviderRemote:
		g, err = NewRemoteProvider(cfg, log)
	case ProviderGenAI:
		g, err = NewGenAIProvider(ctx, cfg)
	case ProviderCanned:
		g = NewCannedResponder()
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(g), nil
}

type instrumented struct {
	Generator
}

// Instrument records request counts and latency for g.
func Instrument(g Generator) Generator {
	return instrumented{g}
}

func (i instrumented) Generate(ctx context.Context, p Prompt) (string, error) {
	start := time.Now()
	out, err := i.Generator.Generate(ctx, p)
	metrics.AIDuration.WithLabelValues(i.Name()).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AIRequests.WithLabelValues(i.Name(), outcome).Inc()
	return out, err
}
