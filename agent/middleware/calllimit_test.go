package middleware

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

func TestCallLimiterEnforcesBudget(t *testing.T) {
	t.Parallel()

	l := NewCallLimiter(5)
	if l.Count() != 0 {
		t.Fatalf("fresh limiter count = %d", l.Count())
	}

	for i := 0; i < 5; i++ {
		if err := l.Increment(); err != nil {
			t.Fatalf("call %d should be within budget: %v", i+1, err)
		}
	}

	err := l.Increment()
	if !errors.Is(err, contractx.ErrCallLimitExceeded) {
		t.Fatalf("call 6 should exceed budget, got %v", err)
	}
}

func TestCallLimiterDefaultMax(t *testing.T) {
	t.Parallel()

	l := NewCallLimiter(0)
	for i := 0; i < DefaultMaxLLMCalls; i++ {
		if err := l.Increment(); err != nil {
			t.Fatalf("call %d should be within default budget: %v", i+1, err)
		}
	}
	if err := l.Increment(); err == nil {
		t.Fatal("expected default budget to be enforced")
	}
}

func TestCallLimiterContextRoundTrip(t *testing.T) {
	t.Parallel()

	if got := CallLimiterFrom(context.Background()); got != nil {
		t.Fatalf("bare context should carry no limiter, got %v", got)
	}

	l := NewCallLimiter(2)
	ctx := WithCallLimiter(context.Background(), l)
	if got := CallLimiterFrom(ctx); got != l {
		t.Fatal("limiter lost in context round trip")
	}
}
