package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_RejectsMemoryBackend(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("STATE_BACKEND", "memory")

	resp, err := Handler(context.Background(), Request{Body: `{"update_id":1}`})
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, resp.Body, "memory")
}

func TestHandler_InvalidConfig(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	resp, err := Handler(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, resp.Body, "TELEGRAM_TOKEN")
}
