//go:build unit
// +build unit

package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/sampling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		name string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levelOf(tt.name))
		})
	}
}

func TestNewZapLoggerWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	conf := &core.Conf{
		DisableStdoutLog:   true,
		EnableFileLog:      true,
		LogDir:             dir,
		LogLevel:           "info",
		LogRotationMaxDays: 7,
	}
	logger, err := NewZapLogger(conf)
	require.NoError(t, err)
	logger.Debug("hidden message")
	logger.Info("visible message")
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(dir, "shadow-*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	b, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), "visible message")
	assert.Contains(t, string(b), "timestamp")
	assert.NotContains(t, string(b), "hidden message")
}

func TestNewZapLoggerErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		conf *core.Conf
	}{
		{
			name: "missing dir",
			conf: &core.Conf{EnableFileLog: true, LogDir: filepath.Join(dir, "missing"), LogRotationMaxDays: 7},
		},
		{
			name: "zero rotation days",
			conf: &core.Conf{EnableFileLog: true, LogDir: dir, LogRotationMaxDays: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewZapLogger(tt.conf)
			assert.Error(t, err)
		})
	}
}

func TestNewZapLoggerWithoutFile(t *testing.T) {
	logger, err := NewZapLogger(&core.Conf{DisableStdoutLog: true, DevMode: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestProgressLogTaskWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	progress := sampling.NewProgress()
	progress.Start(40)

	task := &ProgressLogTaskImpl{FileDir: dir, Progress: progress}
	require.NoError(t, task.Setup())
	task.Task()
	task.Task()
	task.Cleanup()

	b, err := os.ReadFile(filepath.Join(dir, metricsFileName(time.Now())))
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"msg":"Progress"`)
	assert.Contains(t, s, `"completed_shots":0`)
	assert.Contains(t, s, `"total_shots":40`)
}

func TestProgressLogTaskWithoutFileDir(t *testing.T) {
	task := &ProgressLogTaskImpl{Progress: nil}
	require.NoError(t, task.Setup())
	assert.NotPanics(t, task.Task)
	assert.NotPanics(t, task.Cleanup)
}

func TestProgressLogTaskRejectsMissingDir(t *testing.T) {
	task := &ProgressLogTaskImpl{FileDir: filepath.Join(t.TempDir(), "missing")}
	assert.Error(t, task.Setup())
}

func TestDailyLoggerReopensAfterClose(t *testing.T) {
	dir := t.TempDir()
	dl := newDailyLogger(dir)

	_, err := dl.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, dl.Close())
	require.NoError(t, dl.Close())
	_, err = dl.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, dl.Close())

	b, err := os.ReadFile(filepath.Join(dir, metricsFileName(time.Now())))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(b))
}

func TestMetricsFileName(t *testing.T) {
	d := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "metrics-2024-03-09.log", metricsFileName(d))
}
