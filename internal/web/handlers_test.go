package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napatw/CareLine-Appointment-Assistant/agent/agents/assistant"
	contractx "github.com/napatw/CareLine-Appointment-Assistant/agent/contract"
	nodex "github.com/napatw/CareLine-Appointment-Assistant/agent/nodes"
	metricsx "github.com/napatw/CareLine-Appointment-Assistant/internal/observability/metrics"
)

type fakeService struct {
	handleOut   nodex.GraphOutput
	handleErr   error
	finalizeOut assistant.FinalizeResult
	finalizeErr error
	lastMessage string
}

func (f *fakeService) HandleRequest(ctx context.Context, text string) (nodex.GraphOutput, error) {
	f.lastMessage = text
	return f.handleOut, f.handleErr
}

func (f *fakeService) Finalize(ctx context.Context, req assistant.FinalizeRequest) (assistant.FinalizeResult, error) {
	return f.finalizeOut, f.finalizeErr
}

func newTestServer(t *testing.T, svc *fakeService, ready ReadinessProbe) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewServer(svc, metricsx.NewWorkflowMetrics(reg), reg, ready)
}

func TestProcessReturnsRunReport(t *testing.T) {
	t.Parallel()

	svc := &fakeService{handleOut: nodex.GraphOutput{
		RunID:         "RUN-AAAA1111",
		Status:        contractx.StatusReady,
		Route:         "cancel_success",
		HITLAction:    contractx.ReviewPending,
		DraftResponse: "Your appointment has been cancelled.",
	}}
	srv := newTestServer(t, svc, nil)

	body := bytes.NewBufferString(`{"message":"cancel APT-1001"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancel APT-1001", svc.lastMessage)

	var out nodex.GraphOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "RUN-AAAA1111", out.RunID)
	assert.Equal(t, contractx.ReviewPending, out.HITLAction)
	assert.Equal(t, "Your appointment has been cancelled.", out.DraftResponse)
}

func TestProcessRejectsBadJSON(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessEmptyMessage(t *testing.T) {
	t.Parallel()

	svc := &fakeService{handleErr: assistant.ErrEmptyMessage}
	srv := newTestServer(t, svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewBufferString(`{"message":""}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessCallBudgetExhausted(t *testing.T) {
	t.Parallel()

	svc := &fakeService{handleErr: contractx.ErrCallLimitExceeded}
	srv := newTestServer(t, svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/process", bytes.NewBufferString(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestFinalizeAppliesDecision(t *testing.T) {
	t.Parallel()

	svc := &fakeService{finalizeOut: assistant.FinalizeResult{
		RunID:         "RUN-AAAA1111",
		Status:        contractx.StatusReady,
		HITLAction:    contractx.ReviewApprove,
		FinalResponse: "Your appointment has been cancelled.",
	}}
	srv := newTestServer(t, svc, nil)

	body := bytes.NewBufferString(`{"run_id":"RUN-AAAA1111","draft":"Your appointment has been cancelled.","action":"approve"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/finalize", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res assistant.FinalizeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, contractx.ReviewApprove, res.HITLAction)
}

func TestFinalizeValidationError(t *testing.T) {
	t.Parallel()

	svc := &fakeService{finalizeErr: contractx.ErrValidation}
	srv := newTestServer(t, svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/finalize", bytes.NewBufferString(`{"action":"approve"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzProbeFailure(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{}, func(ctx context.Context) error {
		return errors.New("provider unreachable")
	})
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyzProbeSuccess(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{}, func(ctx context.Context) error { return nil })
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
