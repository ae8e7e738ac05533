package review

import (
	"bytes"
	"context"
	"strings"
	"testing"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

func TestConsoleReviewerApprove(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("a\n"), &out)

	decision, err := r.Review(context.Background(), contractx.ReviewRequest{
		RunID: "RUN-TEST0001",
		Draft: "Your appointment is confirmed.",
	})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if decision.Action != contractx.ReviewApprove {
		t.Fatalf("action = %s", decision.Action)
	}
	if !strings.Contains(out.String(), "Your appointment is confirmed.") {
		t.Fatalf("draft not shown to reviewer: %q", out.String())
	}
}

func TestConsoleReviewerEdit(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("e\nUse the shorter wording.\n"), &out)

	decision, err := r.Review(context.Background(), contractx.ReviewRequest{RunID: "RUN-TEST0001"})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if decision.Action != contractx.ReviewEdit {
		t.Fatalf("action = %s", decision.Action)
	}
	if decision.EditedText != "Use the shorter wording." {
		t.Fatalf("edited = %q", decision.EditedText)
	}
}

func TestConsoleReviewerRetriesOnGarbage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader("maybe\nR\n"), &out)

	decision, err := r.Review(context.Background(), contractx.ReviewRequest{RunID: "RUN-TEST0001"})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if decision.Action != contractx.ReviewReject {
		t.Fatalf("action = %s", decision.Action)
	}
	if !strings.Contains(out.String(), "Please answer") {
		t.Fatalf("no retry prompt in %q", out.String())
	}
}

func TestConsoleReviewerInputClosed(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := NewConsoleReviewer(strings.NewReader(""), &out)

	if _, err := r.Review(context.Background(), contractx.ReviewRequest{RunID: "RUN-TEST0001"}); err == nil {
		t.Fatal("expected error on closed input")
	}
}

func TestPassthroughReviewerDefers(t *testing.T) {
	t.Parallel()

	decision, err := PassthroughReviewer{}.Review(context.Background(), contractx.ReviewRequest{RunID: "RUN-TEST0001"})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if decision.Action != contractx.ReviewPending {
		t.Fatalf("action = %s", decision.Action)
	}
}
