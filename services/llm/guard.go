package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

// GuardOptions bounds how a ChatModel is called.
type GuardOptions struct {
	// MaxAttempts of 1 or less disables retries.
	MaxAttempts int
	RetryDelay  time.Duration
	// Timeout applies to each attempt; zero means none.
	Timeout time.Duration
	// RequestsPerMinute throttles outgoing calls; zero means unlimited.
	RequestsPerMinute int
}

type guardedModel struct {
	inner   ChatModel
	opts    GuardOptions
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Guard wraps a model with a request throttle, a per-attempt timeout and
// retries on transient failures.
func Guard(inner ChatModel, opts GuardOptions) ChatModel {
	g := &guardedModel{
		inner: inner,
		opts:  opts,
		log:   logging.With("llm"),
	}
	if opts.MaxAttempts < 1 {
		g.opts.MaxAttempts = 1
	}
	if opts.RetryDelay <= 0 {
		g.opts.RetryDelay = time.Second
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return g
}

func (g *guardedModel) Name() string { return g.inner.Name() }

func (g *guardedModel) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	reply, err := retry.DoWithData(
		func() (string, error) {
			if g.limiter != nil {
				if err := g.limiter.Wait(ctx); err != nil {
					return "", retry.Unrecoverable(err)
				}
			}
			attemptCtx := ctx
			if g.opts.Timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
				defer cancel()
			}
			out, err := g.inner.Generate(attemptCtx, req)
			if err != nil && isPermanent(err) {
				return "", retry.Unrecoverable(err)
			}
			return out, err
		},
		retry.Context(ctx),
		retry.Attempts(uint(g.opts.MaxAttempts)),
		retry.Delay(g.opts.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.log.Warn().Err(err).Uint("attempt", n+1).Str("model", g.inner.Name()).Msg("retrying model call")
		}),
	)
	if err != nil {
		g.log.Error().Err(err).Str("model", g.inner.Name()).Dur("duration", time.Since(start)).Msg("model call failed")
		return "", err
	}
	g.log.Debug().Str("model", g.inner.Name()).Int("reply_length", len(reply)).Dur("duration", time.Since(start)).Msg("model call completed")
	return reply, nil
}

// isPermanent reports failures a retry cannot fix: cancellation, bad
// credentials and malformed requests.
func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrMissingAPIKey) {
		return true
	}
	status := 0
	var oaErr *openai.APIError
	var oaReqErr *openai.RequestError
	var anErr *anthropic.Error
	switch {
	case errors.As(err, &oaErr):
		status = oaErr.HTTPStatusCode
	case errors.As(err, &oaReqErr):
		status = oaReqErr.HTTPStatusCode
	case errors.As(err, &anErr):
		status = anErr.StatusCode
	}
	if status == 0 {
		return false
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout
}
