package healthcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testMonitor() *Monitor {
	return NewMonitor(Config{
		Interval:    time.Hour, // probes driven manually via checkAll
		Timeout:     time.Second,
		MaxFailures: 3,
	}, zerolog.Nop())
}

func TestComponentTurnsUnhealthyAfterConsecutiveFailures(t *testing.T) {
	m := testMonitor()
	m.Register("database", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	m.checkAll()
	m.checkAll()
	assert.True(t, m.Snapshot()["database"].IsHealthy, "below threshold stays healthy")

	m.checkAll()
	assert.False(t, m.Snapshot()["database"].IsHealthy)
	assert.Equal(t, Unhealthy, m.Overall())
}

func TestComponentRecoversOnSuccess(t *testing.T) {
	m := testMonitor()

	failing := true
	m.Register("redis", func(ctx context.Context) error {
		if failing {
			return errors.New("timeout")
		}
		return nil
	})

	for i := 0; i < 3; i++ {
		m.checkAll()
	}
	assert.False(t, m.Snapshot()["redis"].IsHealthy)

	failing = false
	m.checkAll()

	status := m.Snapshot()["redis"]
	assert.True(t, status.IsHealthy)
	assert.Zero(t, status.FailureCount)
}

func TestOverallDegradedWhenOneOfManyFails(t *testing.T) {
	m := testMonitor()
	m.Register("database", func(ctx context.Context) error { return nil })
	m.Register("redis", func(ctx context.Context) error { return errors.New("down") })

	for i := 0; i < 3; i++ {
		m.checkAll()
	}

	assert.Equal(t, Degraded, m.Overall())
}

func TestEmptyMonitorReportsHealthy(t *testing.T) {
	assert.Equal(t, Healthy, testMonitor().Overall())
}
