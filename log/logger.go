package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	rotate "github.com/lestrrat-go/file-rotatelogs"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/common"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFilePattern = "shadow-%Y-%m-%d.log"

// NewZapLogger builds the process logger from conf: console encoding in dev
// mode, ISO8601 JSON otherwise, tee'd to stdout and an optional rotating file.
func NewZapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder //Not use UnixTime
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	level := zap.NewAtomicLevelAt(levelOf(conf.LogLevel))

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotator, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}
	if !conf.DisableStdoutLog {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func levelOf(name string) zapcore.Level {
	switch name {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	if err := common.IsDirWritable(dirPath); err != nil {
		return nil, fmt.Errorf("%s is not a writable log directory: %w", dirPath, err)
	}
	if rotationMaxDays < 1 {
		return nil, core.NewConfigError("log-rotation-max-days", "must be at least 1, got %d", rotationMaxDays)
	}
	return rotate.New(
		filepath.Join(dirPath, logFilePattern),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
}
