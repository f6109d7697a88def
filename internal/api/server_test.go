package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classgold/internal/testutil"
)

func TestNewServerAddr(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 9090

	s := NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())
	assert.Equal(t, "127.0.0.1:9090", s.Addr())

	cfg.Host = ""
	s = NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())
	assert.Equal(t, ":9090", s.Addr())
}

func TestShutdownWithoutStart(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), DefaultServerConfig(), testutil.NopLogger())
	require.NoError(t, s.Shutdown(context.Background()))
}
