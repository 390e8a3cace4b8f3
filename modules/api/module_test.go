package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIModule_Metadata(t *testing.T) {
	m := NewModule(testHTTPConfig(), time.Second, nil, zerolog.Nop())

	assert.Equal(t, "api", m.Name())
	assert.ElementsMatch(t, []string{"user", "task", "activity"}, m.Dependencies())
}

func TestAPIModule_StartRequiresPorts(t *testing.T) {
	m := NewModule(testHTTPConfig(), time.Second, nil, zerolog.Nop())

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "userPort")

	m.userPort = newMockUserPort()
	err = m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taskPort")
}

func TestAPIModule_StartAndStop(t *testing.T) {
	cfg := testHTTPConfig()
	cfg.Address = "127.0.0.1:0"
	m := NewModule(cfg, time.Second, nil, zerolog.Nop())
	m.userPort = newMockUserPort(alice)
	m.taskPort = newMockTaskPort()
	m.activityPort = &mockActivityPort{}

	assert.False(t, m.Health(context.Background()).Healthy)

	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.Health(context.Background()).Healthy)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Stop(ctx))
}

func TestAPIModule_StopBeforeStart(t *testing.T) {
	m := NewModule(testHTTPConfig(), time.Second, nil, zerolog.Nop())
	assert.NoError(t, m.Stop(context.Background()))
}
