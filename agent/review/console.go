package review

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
)

// ConsoleReviewer prompts an operator on a terminal for the review decision.
// It keeps asking until it gets a recognizable answer.
type ConsoleReviewer struct {
	in  *bufio.Reader
	out io.Writer
}

var _ contractx.Reviewer = (*ConsoleReviewer)(nil)

func NewConsoleReviewer(in io.Reader, out io.Writer) *ConsoleReviewer {
	return &ConsoleReviewer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (r *ConsoleReviewer) Review(ctx context.Context, req contractx.ReviewRequest) (contractx.ReviewDecision, error) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("-", 60))
	fmt.Fprintf(r.out, "REVIEW REQUIRED  run=%s  status=%s  route=%s\n", req.RunID, req.Status, req.Route)
	fmt.Fprintln(r.out, strings.Repeat("-", 60))
	fmt.Fprintln(r.out, req.Draft)
	fmt.Fprintln(r.out, strings.Repeat("-", 60))

	for {
		if err := ctx.Err(); err != nil {
			return contractx.ReviewDecision{}, err
		}

		fmt.Fprint(r.out, "[A]pprove / [E]dit / [R]eject: ")
		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			return contractx.ReviewDecision{}, fmt.Errorf("read review decision: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "a", "approve":
			return contractx.ReviewDecision{Action: contractx.ReviewApprove}, nil
		case "e", "edit":
			fmt.Fprint(r.out, "Enter the edited response: ")
			edited, err := r.in.ReadString('\n')
			if err != nil && edited == "" {
				return contractx.ReviewDecision{}, fmt.Errorf("read edited response: %w", err)
			}
			return contractx.ReviewDecision{
				Action:     contractx.ReviewEdit,
				EditedText: strings.TrimSpace(edited),
			}, nil
		case "r", "reject":
			return contractx.ReviewDecision{Action: contractx.ReviewReject}, nil
		default:
			fmt.Fprintln(r.out, "Please answer A, E, or R.")
		}
	}
}
