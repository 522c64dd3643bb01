package thermostat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, defaultAPIURL, u.Host)

	u, err = parseBaseURL("https://thermo.local:8443/dash?x=1#frag")
	require.NoError(t, err)
	assert.Empty(t, u.Path)
	assert.Empty(t, u.RawQuery)
	assert.Empty(t, u.Fragment)

	_, err = parseBaseURL("http://")
	assert.Error(t, err, "missing host")
}

func TestClient_FetchStateAndHistory(t *testing.T) {
	t.Parallel()

	var gotHistoryQuery url.Values
	var gotUserAgent, gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/estado":
			_, _ = w.Write([]byte(`{"success":true,"from_cache":true,"timestamp":"2026-03-01T09:00:00.5",
				"data":{"temperature_ambient":22.5,"temperature_target":21,"indicator":"NORMAL"}}`))
		case "/api/historial":
			gotHistoryQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"success":true,"total":3,"historial":[
				{"timestamp":"2026-03-01T09:02:00","temperatura":21.0},
				{"timestamp":"garbage","temperatura":99},
				{"timestamp":"2026-03-01T09:00:00","temperatura":20.0}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	state, err := c.FetchState(ctx)
	require.NoError(t, err)
	assert.True(t, state.FromCache)
	assert.Equal(t, 22.5, state.Data["temperature_ambient"])
	want := time.Date(2026, 3, 1, 9, 0, 0, 500_000_000, time.UTC)
	assert.True(t, state.ParsedTimestamp().Equal(want), "ParsedTimestamp = %v, want %v", state.ParsedTimestamp(), want)

	points, err := c.FetchHistory(ctx, 60)
	require.NoError(t, err)
	assert.Equal(t, "60", gotHistoryQuery.Get("limite"))
	require.Len(t, points, 2, "unparseable timestamps are skipped")
	assert.Equal(t, 20.0, points[0].Temperature, "oldest first")
	assert.Equal(t, 21.0, points[1].Temperature)

	assert.Regexp(t, `^thermo/`, gotUserAgent)
	assert.Len(t, gotRequestID, 36, "X-Request-ID should be a uuid")
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("case") {
		case "envelope503":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"success":false,"error":"device unreachable"}`))
		case "plain500":
			http.Error(w, "nope", http.StatusInternalServerError)
		case "badjson":
			_, _ = w.Write([]byte("{not-json"))
		case "falsy200":
			_, _ = w.Write([]byte(`{"success":false,"error":"stale"}`))
		}
	}))
	t.Cleanup(server.Close)

	newClient := func(tc string) *Client {
		c, err := NewClient(server.URL)
		require.NoError(t, err)
		// Route every request through the chosen scenario.
		c.http.Transport = rewriteQuery{tc}
		return c
	}

	var appErr *ApplicationError
	var transportErr *TransportError

	_, err := newClient("envelope503").FetchState(context.Background())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 503, appErr.Status)
	assert.Equal(t, "device unreachable", appErr.Message)

	_, err = newClient("plain500").FetchState(context.Background())
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorContains(t, err, "returned status 500")

	_, err = newClient("badjson").FetchState(context.Background())
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorContains(t, err, "decode response")

	_, err = newClient("falsy200").FetchState(context.Background())
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 200, appErr.Status)
}

func TestClient_ConnectionRefusedIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr)
	require.NoError(t, err)

	_, err = c.FetchState(context.Background())
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorContains(t, err, "execute request")
}

func TestClient_ContextCancelAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.FetchState(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// rewriteQuery adds ?case=<name> to each request before sending it.
type rewriteQuery struct{ name string }

func (rq rewriteQuery) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	q := clone.URL.Query()
	q.Set("case", rq.name)
	clone.URL.RawQuery = q.Encode()
	return http.DefaultTransport.RoundTrip(clone)
}
