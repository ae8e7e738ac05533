package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// CallObserver receives LLM call outcomes, e.g. for prometheus counters.
type CallObserver interface {
	ObserveLLMCall(outcome string)
	ObserveRetry()
}

// RetryModel decorates a chat model with per-run call accounting and
// retry-with-backoff on transient failures. Every attempt counts against the
// run's call budget; the budget error itself is never retried.
type RetryModel struct {
	inner       einomodel.BaseChatModel
	maxAttempts int
	baseDelay   time.Duration
	observer    CallObserver
}

type RetryOption func(*RetryModel)

func WithMaxAttempts(n int) RetryOption {
	return func(m *RetryModel) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

func WithBaseDelay(d time.Duration) RetryOption {
	return func(m *RetryModel) {
		if d > 0 {
			m.baseDelay = d
		}
	}
}

func WithCallObserver(o CallObserver) RetryOption {
	return func(m *RetryModel) {
		m.observer = o
	}
}

func WrapModel(inner einomodel.BaseChatModel, opts ...RetryOption) *RetryModel {
	m := &RetryModel{
		inner:       inner,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *RetryModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	var lastErr error
	delay := m.baseDelay

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		if err := m.consumeBudget(ctx); err != nil {
			return nil, err
		}

		msg, err := m.inner.Generate(ctx, input, opts...)
		if err == nil {
			m.observe("ok")
			if attempt > 1 {
				log.Debug().Int("attempt", attempt).Msg("llm call succeeded after retry")
			}
			return msg, nil
		}
		m.observe("error")
		lastErr = err

		if attempt == m.maxAttempts {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("llm call failed, retrying")
		if m.observer != nil {
			m.observer.ObserveRetry()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, fmt.Errorf("%w: %d attempts exhausted: %v", contractx.ErrModelInvoke, m.maxAttempts, lastErr)
}

// Stream counts against the budget but is not retried: a partially consumed
// stream cannot be replayed.
func (m *RetryModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := m.consumeBudget(ctx); err != nil {
		return nil, err
	}
	return m.inner.Stream(ctx, input, opts...)
}

func (m *RetryModel) consumeBudget(ctx context.Context) error {
	limiter := CallLimiterFrom(ctx)
	if limiter == nil {
		return nil
	}
	if err := limiter.Increment(); err != nil {
		m.observe("limited")
		log.Warn().Int("count", limiter.Count()).Msg("llm call budget exhausted")
		return err
	}
	return nil
}

func (m *RetryModel) observe(outcome string) {
	if m.observer != nil {
		m.observer.ObserveLLMCall(outcome)
	}
}

// IsCallLimit reports whether err is the per-run budget error.
func IsCallLimit(err error) bool {
	return errors.Is(err, contractx.ErrCallLimitExceeded)
}
