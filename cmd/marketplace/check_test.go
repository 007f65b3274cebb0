package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckServices(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	goneURL := gone.URL
	gone.Close()

	results := checkServices(context.Background(), http.DefaultClient, []string{up.URL, broken.URL, goneURL})
	require.Len(t, results, 3)

	assert.True(t, results[0].Up())
	assert.Equal(t, http.StatusOK, results[0].Status)
	assert.False(t, results[1].Up())
	assert.Equal(t, http.StatusBadGateway, results[1].Status)
	assert.False(t, results[2].Up())
	assert.Equal(t, goneURL, results[2].URL)
}
