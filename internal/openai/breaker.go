package openai

import (
	"context"
	"errors"
	"time"

	"github.com/jengzang/thinking-wizard-backend-go/internal/logging"
	"github.com/jengzang/thinking-wizard-backend-go/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

// API is the subset of the client the services depend on
type API interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, jsonOutput bool) (string, error)
	GenerateImage(ctx context.Context, prompt, size, quality string) (*Image, error)
}

// BreakerClient wraps an API with a circuit breaker so a failing upstream is
// rejected fast instead of piling up slow requests.
type BreakerClient struct {
	api  API
	chat *gobreaker.CircuitBreaker[string]
	img  *gobreaker.CircuitBreaker[*Image]
}

// NewBreakerClient opens a breaker after 5 consecutive failures and probes again after 30s
func NewBreakerClient(api API) *BreakerClient {
	return &BreakerClient{
		api:  api,
		chat: gobreaker.NewCircuitBreaker[string](breakerSettings("openai-chat")),
		img:  gobreaker.NewCircuitBreaker[*Image](breakerSettings("openai-images")),
	}
}

func breakerSettings(name string) gobreaker.Settings {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Caller mistakes and cancellations say nothing about upstream health
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrNoAPIKey) {
				return true
			}
			var se *StatusError
			return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != 429
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}
}

// Complete runs Complete through the chat breaker
func (b *BreakerClient) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, jsonOutput bool) (string, error) {
	return b.chat.Execute(func() (string, error) {
		return b.api.Complete(ctx, systemPrompt, userPrompt, maxTokens, jsonOutput)
	})
}

// GenerateImage runs GenerateImage through the image breaker
func (b *BreakerClient) GenerateImage(ctx context.Context, prompt, size, quality string) (*Image, error) {
	return b.img.Execute(func() (*Image, error) {
		return b.api.GenerateImage(ctx, prompt, size, quality)
	})
}

// IsUnavailable reports whether err means the API cannot be used right now:
// the breaker is open or no key is configured
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests) ||
		errors.Is(err, ErrNoAPIKey)
}
