package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

type flakyModel struct {
	failures  int
	calls     int
	streamErr error
}

func (f *flakyModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("transient upstream error")
	}
	return &schema.Message{Content: "ok"}, nil
}

func (f *flakyModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, f.streamErr
}

func TestRetryModelSucceedsAfterRetry(t *testing.T) {
	t.Parallel()

	inner := &flakyModel{failures: 2}
	m := WrapModel(inner, WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	msg, err := m.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if msg.Content != "ok" {
		t.Fatalf("unexpected content %q", msg.Content)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryModelExhaustsAttempts(t *testing.T) {
	t.Parallel()

	inner := &flakyModel{failures: 10}
	m := WrapModel(inner, WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	_, err := m.Generate(context.Background(), nil)
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryModelCountsEveryAttempt(t *testing.T) {
	t.Parallel()

	inner := &flakyModel{failures: 1}
	m := WrapModel(inner, WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	limiter := NewCallLimiter(5)
	ctx := WithCallLimiter(context.Background(), limiter)

	if _, err := m.Generate(ctx, nil); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	// one failed attempt plus one success
	if limiter.Count() != 2 {
		t.Fatalf("expected 2 counted calls, got %d", limiter.Count())
	}
}

func TestRetryModelDoesNotRetryBudgetError(t *testing.T) {
	t.Parallel()

	inner := &flakyModel{}
	m := WrapModel(inner, WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	limiter := NewCallLimiter(1)
	ctx := WithCallLimiter(context.Background(), limiter)

	if _, err := m.Generate(ctx, nil); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	_, err := m.Generate(ctx, nil)
	if !errors.Is(err, contractx.ErrCallLimitExceeded) {
		t.Fatalf("expected budget error, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("budget error must not reach the model, calls = %d", inner.calls)
	}
}
