package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics exposes counters/histograms for assistant runs.
type WorkflowMetrics struct {
	runsTotal       *prometheus.CounterVec
	llmCallsTotal   *prometheus.CounterVec
	llmRetriesTotal prometheus.Counter
	requestLatency  *prometheus.HistogramVec
}

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	m := &WorkflowMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careline",
			Subsystem: "workflow",
			Name:      "runs_total",
			Help:      "Total assistant runs by terminal status and route",
		}, []string{"status", "route"}),
		llmCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careline",
			Subsystem: "workflow",
			Name:      "llm_calls_total",
			Help:      "Total LLM invocations by outcome",
		}, []string{"outcome"}),
		llmRetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careline",
			Subsystem: "workflow",
			Name:      "llm_retries_total",
			Help:      "Total LLM call retries",
		}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careline",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.runsTotal, m.llmCallsTotal, m.llmRetriesTotal, m.requestLatency)
	return m
}

func (m *WorkflowMetrics) ObserveRun(status, route string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status, route).Inc()
}

// ObserveLLMCall and ObserveRetry satisfy the model wrapper's observer hook.
func (m *WorkflowMetrics) ObserveLLMCall(outcome string) {
	if m == nil {
		return
	}
	m.llmCallsTotal.WithLabelValues(outcome).Inc()
}

func (m *WorkflowMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.llmRetriesTotal.Inc()
}

func (m *WorkflowMetrics) ObserveRequestLatency(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(route, status).Observe(seconds)
}
