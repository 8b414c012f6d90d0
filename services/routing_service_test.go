package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDuration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/route/v1/driving/"))
		assert.Equal(t, "false", r.URL.Query().Get("overview"))
		w.Write([]byte(`{"code":"Ok","routes":[{"duration":421.7,"distance":3200.5}]}`))
	}))
	defer server.Close()

	rs := NewRoutingService(server.URL, time.Second)
	d, err := rs.EstimateDuration(context.Background(), -0.13, 51.50, -0.12, 51.51)
	require.NoError(t, err)
	assert.InDelta(t, 421.7, d.Seconds(), 0.01)
}

func TestEstimateDurationNoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer server.Close()

	rs := NewRoutingService(server.URL, time.Second)
	_, err := rs.EstimateDuration(context.Background(), -0.13, 51.50, -0.12, 51.51)
	require.Error(t, err)
}
