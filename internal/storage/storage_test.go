package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyPinger struct {
	failures int
	calls    int
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitReadyRetriesUntilSuccess(t *testing.T) {
	p := &flakyPinger{failures: 2}
	err := WaitReady(context.Background(), p, 5, time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, p.calls)
}

func TestWaitReadyGivesUpAfterBound(t *testing.T) {
	p := &flakyPinger{failures: 100}
	err := WaitReady(context.Background(), p, 3, time.Millisecond, time.Second)
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, 3, p.calls)
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Config{
		DBDriver:        config.DriverSQLite,
		SQLitePath:      ":memory:",
		DBName:          "test",
		ConnectAttempts: 1,
		ConnectTimeout:  time.Second,
	}
	st, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer st.Close(context.Background())

	assert.Equal(t, "test", st.DBName)
	require.NoError(t, st.Pinger.Ping(context.Background()))
}
