package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		_, _ = w.Write([]byte(`{"a": 1}`))
	}))
	defer srv.Close()

	src := New(srv.URL+"/data.json", WithClient(srv.Client()), WithHeader("X-Test", "yes"))
	assert.Equal(t, srv.URL+"/data.json", src.URL())

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, string(data))
}

func TestLoad_Status(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.URL + "/missing.json").Load(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Error(), "404")
}

func TestLoad_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Load(context.Background())
	require.Error(t, err)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New("http://example.invalid").Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
