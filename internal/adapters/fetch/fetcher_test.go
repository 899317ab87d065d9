package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-route-service/internal/domain"
)

// scriptedTransport answers each request with the next queued status,
// recording how many attempts were made.
type scriptedTransport struct {
	statuses []int
	calls    int
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	status := s.statuses[len(s.statuses)-1]
	if s.calls <= len(s.statuses) {
		status = s.statuses[s.calls-1]
	}
	if status == 0 {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func testOptions() Options {
	return Options{
		Timeout:     time.Second,
		MaxRetries:  3,
		BaseBackoff: time.Millisecond,
	}
}

func TestGetRetriesOn5xxThenSucceeds(t *testing.T) {
	tr := &scriptedTransport{statuses: []int{500, 200}}
	f := New(&http.Client{Transport: tr})

	resp, err := f.Get(context.Background(), "http://example.test/api", nil, nil, testOptions())
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, tr.calls)
}

func TestGetRetriesOn429(t *testing.T) {
	tr := &scriptedTransport{statuses: []int{429, 200}}
	f := New(&http.Client{Transport: tr})

	resp, err := f.Get(context.Background(), "http://example.test/api", nil, nil, testOptions())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 2, tr.calls)
}

func TestGetTerminalOn4xx(t *testing.T) {
	tr := &scriptedTransport{statuses: []int{404}}
	f := New(&http.Client{Transport: tr})

	_, err := f.Get(context.Background(), "http://example.test/api", nil, nil, testOptions())
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.FetchHTTPStatus, fe.Kind)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, 1, tr.calls, "terminal statuses must not be retried")
}

func TestGetExhaustsRetries(t *testing.T) {
	tr := &scriptedTransport{statuses: []int{503}}
	f := New(&http.Client{Transport: tr})

	_, err := f.Get(context.Background(), "http://example.test/api", nil, nil, testOptions())
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.FetchExhausted, fe.Kind)
	assert.Equal(t, 3, fe.Attempts)
	assert.Equal(t, 3, tr.calls)

	var cause *domain.FetchError
	require.ErrorAs(t, fe.Cause, &cause)
	assert.Equal(t, http.StatusServiceUnavailable, cause.Status)
}

func TestGetRetriesTransportErrors(t *testing.T) {
	tr := &scriptedTransport{statuses: []int{0, 0, 200}}
	f := New(&http.Client{Transport: tr})

	resp, err := f.Get(context.Background(), "http://example.test/api", nil, nil, testOptions())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 3, tr.calls)
}

func TestGetSetsParamsAndHeaders(t *testing.T) {
	var got *http.Request
	tr := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = req
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(strings.NewReader("{}")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})
	f := New(&http.Client{Transport: tr})

	params := map[string][]string{"q": {"pune"}, "limit": {"1"}}
	header := http.Header{"User-Agent": {"tour-route-service/1.0"}}
	resp, err := f.Get(context.Background(), "http://example.test/api", params, header, testOptions())
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "pune", got.URL.Query().Get("q"))
	assert.Equal(t, "1", got.URL.Query().Get("limit"))
	assert.Equal(t, "tour-route-service/1.0", got.Header.Get("User-Agent"))
}

func TestGetHonorsContextCancellation(t *testing.T) {
	tr := &scriptedTransport{statuses: []int{500}}
	f := New(&http.Client{Transport: tr})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Get(ctx, "http://example.test/api", nil, nil, testOptions())
	require.ErrorIs(t, err, context.Canceled)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
