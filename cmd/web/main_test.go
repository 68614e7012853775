package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	t.Setenv("BRICK_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("BRICK_SERVER_PORT", strconv.Itoa(port))
	t.Setenv("BRICK_TELEMETRY_METRIC_EXPORTER", "none")
	t.Setenv("BRICK_TELEMETRY_TRACE_EXPORTER", "none")
	t.Setenv("BRICK_CONFIG_FILE", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	healthURL := fmt.Sprintf("http://127.0.0.1:%d/api/health", port)
	var status map[string]any
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&status) == nil
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "degraded", status["status"])

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err := http.Get(healthURL)
	assert.Error(t, err)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("BRICK_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("BRICK_SERVER_PORT", "70000")
	t.Setenv("BRICK_CONFIG_FILE", "")

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}
