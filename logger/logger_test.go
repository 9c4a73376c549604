package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewWithWriter_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info"}, &buf)

	log.Info().Str("ticker", "PETR4").Msg("test message")

	assert.Contains(t, buf.String(), `"message":"test message"`)
	assert.Contains(t, buf.String(), `"ticker":"PETR4"`)
}

func TestNewWithWriter_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "warn"}, &buf)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.level))
		})
	}
}

func TestGorm_LevelsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	gl := Gorm(NewWithWriter(Config{Level: "info"}, &buf), 200*time.Millisecond)
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT * FROM assets", 0 }

	gl.Error(ctx, "failed to connect: %s", "refused")
	gl.Trace(ctx, time.Now(), sql, errors.New("disk I/O error"))
	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)

	out := buf.String()
	assert.Contains(t, out, `"message":"failed to connect: refused"`)
	assert.Contains(t, out, `"error":"disk I/O error"`)
	assert.Contains(t, out, `"message":"query failed"`)
	assert.Contains(t, out, `"message":"slow query"`)
	assert.Contains(t, out, `"sql":"SELECT * FROM assets"`)
}

func TestGorm_Trace(t *testing.T) {
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("fast query hidden at info", func(t *testing.T) {
		var buf bytes.Buffer
		gl := Gorm(NewWithWriter(Config{Level: "info"}, &buf), 200*time.Millisecond)

		gl.Trace(ctx, time.Now(), sql, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("fast query shown at debug", func(t *testing.T) {
		var buf bytes.Buffer
		gl := Gorm(NewWithWriter(Config{Level: "debug"}, &buf), 200*time.Millisecond)

		gl.Trace(ctx, time.Now(), sql, nil)
		assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
		assert.Contains(t, buf.String(), `"level":"debug"`)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		var buf bytes.Buffer
		gl := Gorm(NewWithWriter(Config{Level: "info"}, &buf), 200*time.Millisecond)

		gl.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("silent mode", func(t *testing.T) {
		var buf bytes.Buffer
		gl := Gorm(NewWithWriter(Config{Level: "debug"}, &buf), 200*time.Millisecond).LogMode(gormlogger.Silent)

		gl.Error(ctx, "boom")
		gl.Trace(ctx, time.Now(), sql, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}

func TestGorm_InfoAndWarn(t *testing.T) {
	var buf bytes.Buffer
	gl := Gorm(NewWithWriter(Config{Level: "debug"}, &buf), 200*time.Millisecond)

	gl.Info(context.Background(), "migrated %d tables", 4)
	gl.Warn(context.Background(), "deprecated %s", "option")

	out := buf.String()
	assert.Contains(t, out, `"component":"gorm"`)
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"message":"migrated 4 tables"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"message":"deprecated option"`)
}
