package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestConfig_Build(t *testing.T) {
	t.Run("builds a console logger", func(t *testing.T) {
		l, err := Config{Level: "debug", Format: "console", Output: "stdout"}.Build()
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("builds a json logger", func(t *testing.T) {
		l, err := Config{Level: "warn", Format: "json", Output: "stderr"}.Build()
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zap.InfoLevel))
		assert.True(t, l.Core().Enabled(zap.WarnLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		l, err := Config{Level: "verbose", Format: "json", Output: "stdout"}.Build()
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zap.DebugLevel))
		assert.True(t, l.Core().Enabled(zap.InfoLevel))
	})
}

func TestNewForEnvironment(t *testing.T) {
	t.Run("production logger is info level", func(t *testing.T) {
		l, err := NewForEnvironment("production")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zap.InfoLevel))
		assert.False(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("development logger builds", func(t *testing.T) {
		l, err := NewForEnvironment("development")
		require.NoError(t, err)
		assert.NotNil(t, l)
	})
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestGormLogger_Trace(t *testing.T) {
	newObserved := func(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
		core, logs := observer.New(zap.DebugLevel)
		return NewGormLogger(zap.New(core), level), logs
	}

	t.Run("logs errors with sql and request id", func(t *testing.T) {
		gl, logs := newObserved(gormlogger.Error)
		ctx := WithRequestID(context.Background(), "req-9")

		gl.Trace(ctx, time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, assert.AnError)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "SQL Error", entry.Message)
		assert.Equal(t, "SELECT 1", entry.ContextMap()["sql"])
		assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
	})

	t.Run("record not found is not logged", func(t *testing.T) {
		gl, logs := newObserved(gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT 1", 0
		}, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow queries are warned", func(t *testing.T) {
		gl, logs := newObserved(gormlogger.Warn)

		gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
			return "SELECT pg_sleep(1)", 0
		}, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		gl, logs := newObserved(gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), func() (string, int64) {
			return "SELECT 1", 1
		}, assert.AnError)

		assert.Equal(t, 0, logs.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
