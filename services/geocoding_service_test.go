package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{"display_name":"Westminster, London, England"}`))
	}))
	defer server.Close()

	gs := NewGeocodingService(server.URL, time.Second)
	address, err := gs.ReverseGeocode(context.Background(), -0.1278, 51.5074)
	require.NoError(t, err)
	assert.Equal(t, "Westminster, London, England", address)
}

func TestReverseGeocodeEmptyNameFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	gs := NewGeocodingService(server.URL, time.Second)
	address, err := gs.ReverseGeocode(context.Background(), -0.1278, 51.5074)
	require.NoError(t, err)
	assert.Equal(t, "Unknown location", address)
}

func TestReverseGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gs := NewGeocodingService(server.URL, time.Second)
	_, err := gs.ReverseGeocode(context.Background(), -0.1278, 51.5074)
	require.Error(t, err)
}
