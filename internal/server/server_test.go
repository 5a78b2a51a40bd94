package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectification-lab/internal/config"
	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/orchestrator"
)

// fakeSearcher validates like the orchestrator, reports two attempts and
// returns a fixed result.
type fakeSearcher struct {
	err     error
	got     domain.SearchRequest
	blockOn chan struct{} // when set, Run waits for ctx cancellation
}

func (f *fakeSearcher) Run(ctx context.Context, req domain.SearchRequest, observe func(orchestrator.AttemptTrace)) (*orchestrator.SearchResult, error) {
	f.got = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.blockOn != nil {
		close(f.blockOn)
		<-ctx.Done()
		return nil, orchestrator.ErrAbandoned
	}

	traces := []orchestrator.AttemptTrace{
		{State: orchestrator.StatePrimary, Window: req.Window.String(), Samples: 30},
		{State: orchestrator.StateWidenedWindow, Window: domain.FullDay.String(), Samples: 720, Accepted: 1},
	}
	for _, tr := range traces {
		if observe != nil {
			observe(tr)
		}
	}

	loc := req.Location()
	return &orchestrator.SearchResult{
		RunID:   "run-1",
		Request: req,
		Outcome: domain.OutcomeFound,
		Candidates: []domain.Candidate{{
			CandidateID: "abc",
			Instant:     time.Date(2024, 3, 21, 15, 2, 24, 0, loc),
			Lagna:       100,
			Score:       &domain.CompositeScore{Total: 80},
		}},
		Attempts: traces,
	}, nil
}

func newTestServer(t *testing.T, f *fakeSearcher) *httptest.Server {
	t.Helper()
	s := New(Options{
		Config:   config.ServerConfig{CORSOrigins: []string{"*"}, RequestTimeout: 5 * time.Second},
		Searcher: f,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func validBody() RectifyRequest {
	return RectifyRequest{
		Date:      "2024-03-21",
		Latitude:  28.6,
		Longitude: 77.2,
		UTCOffset: "+05:30",
		Start:     "10:00",
		End:       "11:00",
	}
}

func post(t *testing.T, ts *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/api/v1/rectify", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeSearcher{})
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeSearcher{})
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRectify_OK(t *testing.T) {
	f := &fakeSearcher{}
	ts := newTestServer(t, f)

	resp := post(t, ts, validBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "run-1", report["run_id"])
	assert.Equal(t, "found", report["outcome"])
	assert.Len(t, report["attempts"], 2)
	assert.Len(t, report["candidates"], 1)

	assert.Equal(t, 5*time.Hour+30*time.Minute, f.got.UTCOffset)
	assert.Equal(t, domain.ClockTime{Hour: 10}, f.got.Window.Start)
	assert.Nil(t, f.got.Tolerance)
}

func TestRectify_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		err      error
		wantCode int
		wantKind string
	}{
		{"malformed json", "not an object", nil, http.StatusBadRequest, "invalid_input"},
		{"bad date", func() RectifyRequest { b := validBody(); b.Date = "21/03/2024"; return b }(), nil, http.StatusBadRequest, "invalid_input"},
		{"bad clock", func() RectifyRequest { b := validBody(); b.Start = "ten"; return b }(), nil, http.StatusBadRequest, "invalid_input"},
		{"bad step", func() RectifyRequest { b := validBody(); b.Step = "fast"; return b }(), nil, http.StatusBadRequest, "invalid_input"},
		{"latitude out of range", func() RectifyRequest { b := validBody(); b.Latitude = 95; return b }(), nil, http.StatusBadRequest, "invalid_input"},
		{"astronomical", validBody(), &ephemeris.AstronomicalError{Op: "sunrise", Err: errors.New("no crossing")}, http.StatusUnprocessableEntity, "astronomical"},
		{"internal", validBody(), errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &fakeSearcher{err: tt.err})
			resp := post(t, ts, tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			var e ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Equal(t, tt.wantKind, e.Kind)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws/rectify"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStream_AttemptsThenResult(t *testing.T) {
	ts := newTestServer(t, &fakeSearcher{})
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(validBody()))

	var msgs []StreamMessage
	for {
		var m StreamMessage
		if err := conn.ReadJSON(&m); err != nil {
			break
		}
		msgs = append(msgs, m)
	}

	require.Len(t, msgs, 3)
	assert.Equal(t, MessageAttempt, msgs[0].Type)
	assert.Equal(t, orchestrator.StatePrimary, msgs[0].Attempt.State)
	assert.Equal(t, orchestrator.StateWidenedWindow, msgs[1].Attempt.State)
	assert.Equal(t, MessageResult, msgs[2].Type)
	require.NotNil(t, msgs[2].Report)
	assert.Equal(t, "run-1", msgs[2].Report.RunID)
}

func TestStream_InvalidRequest(t *testing.T) {
	ts := newTestServer(t, &fakeSearcher{})
	conn := dial(t, ts)

	b := validBody()
	b.End = b.Start
	require.NoError(t, conn.WriteJSON(b))

	var m StreamMessage
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, MessageError, m.Type)
	require.NotNil(t, m.Error)
	assert.Equal(t, "invalid_input", m.Error.Kind)
}

func TestStream_CloseAbandonsSearch(t *testing.T) {
	started := make(chan struct{})
	ts := newTestServer(t, &fakeSearcher{blockOn: started})
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(validBody()))
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("search did not start")
	}

	// Closing the client unblocks the fake through context cancellation;
	// the handler then exits and the test server can shut down.
	require.NoError(t, conn.Close())
}

func TestClassify(t *testing.T) {
	code, kind := classify(fmt.Errorf("window: %w", domain.ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_input", kind)

	code, _ = classify(context.DeadlineExceeded)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	_, kind = classify(orchestrator.ErrAbandoned)
	assert.Equal(t, "abandoned", kind)
}
