package state

import (
	"strings"
	"time"
)

// NodeVisit records one node execution for the run trace.
type NodeVisit struct {
	Node      string  `json:"node"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// Visit appends a node to the trace, stamped with elapsed time since the
// run started.
func (s *RunState) Visit(node string, now time.Time) {
	s.Trace = append(s.Trace, NodeVisit{
		Node:      node,
		ElapsedMS: float64(now.Sub(s.StartedAt)) / float64(time.Millisecond),
	})
}

// TraceSummary renders the visited nodes as "a -> b -> c" for logs and the
// final run report.
func (s *RunState) TraceSummary() string {
	nodes := make([]string, 0, len(s.Trace))
	for _, v := range s.Trace {
		nodes = append(nodes, v.Node)
	}
	return strings.Join(nodes, " -> ")
}
