package middleware

import (
	"context"
	"fmt"
	"sync"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

// DefaultMaxLLMCalls bounds LLM invocations per workflow run.
const DefaultMaxLLMCalls = 5

// CallLimiter counts LLM calls for a single run. It travels in the request
// context so the shared model wrapper can find the counter belonging to the
// run it is serving.
type CallLimiter struct {
	mu    sync.Mutex
	max   int
	count int
}

func NewCallLimiter(max int) *CallLimiter {
	if max <= 0 {
		max = DefaultMaxLLMCalls
	}
	return &CallLimiter{max: max}
}

// Increment records one LLM call and fails once the per-run budget is spent.
func (l *CallLimiter) Increment() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
	if l.count > l.max {
		return fmt.Errorf("%w: %d calls used, max %d", contractx.ErrCallLimitExceeded, l.count, l.max)
	}
	return nil
}

func (l *CallLimiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

type limiterKey struct{}

// WithCallLimiter attaches a per-run limiter to the context.
func WithCallLimiter(ctx context.Context, l *CallLimiter) context.Context {
	return context.WithValue(ctx, limiterKey{}, l)
}

// CallLimiterFrom returns the run's limiter, or nil when the context carries
// none (calls are then unbounded).
func CallLimiterFrom(ctx context.Context) *CallLimiter {
	l, _ := ctx.Value(limiterKey{}).(*CallLimiter)
	return l
}
