package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/mathieu-neron/vixtube/internal/config"
	"github.com/mathieu-neron/vixtube/internal/metrics"
)

const maxReplyBytes = 1 << 20

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	Model    string        `json:"model"`
	Seed     int           `json:"seed"`
}

// RemoteProvider posts chat messages to an HTTP text-generation endpoint that
// answers with plain text.
type RemoteProvider struct {
	endpoint string
	apiKey   string
	model    string
	timeout  time.Duration
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[string]
}

func NewRemoteProvider(cfg config.AIConfig, log zerolog.Logger) (*RemoteProvider, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("ai.endpoint is required for the remote provider")
	}
	name := "ai-remote"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &RemoteProvider{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		client:   &http.Client{},
		cb:       cb,
	}, nil
}

func (p *RemoteProvider) Name() string { return ProviderRemote }

func (p *RemoteProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	return p.cb.Execute(func() (string, error) {
		return p.call(ctx, prompt)
	})
}

func (p *RemoteProvider) call(ctx context.Context, prompt Prompt) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	system := prompt.System
	if system == "" {
		system = "You are a helpful assistant."
	}
	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt.User},
		},
		Model: p.model,
		Seed:  42,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("read ai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai provider responded with %d", resp.StatusCode)
	}
	return strings.TrimSpace(string(text)), nil
}
