package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oqtopus-team/oqtopus-engine/shadowapp/common"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/core"
	"github.com/oqtopus-team/oqtopus-engine/shadowapp/sampling"
	"go.uber.org/zap"
)

const ProgressLogTaskName = "progress_log"

const (
	completedShotsKeyInMetrics = "completed_shots"
	totalShotsKeyInMetrics     = "total_shots"
)

// ProgressLogTaskImpl periodically reports shot progress to the zap logger
// and, when FileDir is set, as JSON lines into a daily metrics file.
type ProgressLogTaskImpl struct {
	FileDir  string
	Progress *sampling.Progress

	dl      *dailyLogger
	metrics *slog.Logger
	last    int

	core.DefaultTaskImpl
}

func (p *ProgressLogTaskImpl) Setup() error {
	if p.FileDir == "" {
		zap.L().Debug("no metrics dir, progress goes to the process log only")
		return nil
	}
	if err := common.IsDirWritable(p.FileDir); err != nil {
		zap.L().Error("failed to set up progress log task", zap.Error(err))
		return fmt.Errorf("failed to write to %s: %w", p.FileDir, err)
	}
	p.dl = newDailyLogger(p.FileDir)
	p.metrics = slog.New(slog.NewJSONHandler(p.dl, nil))
	return nil
}

func (p *ProgressLogTaskImpl) Task() {
	completed, total := p.Progress.Completed(), p.Progress.Total()
	if completed != p.last {
		zap.L().Info(fmt.Sprintf("[Progress] %d/%d shots", completed, total))
		p.last = completed
	}
	if p.metrics != nil {
		p.metrics.Info(
			"Progress",
			slog.Int(completedShotsKeyInMetrics, completed),
			slog.Int(totalShotsKeyInMetrics, total),
		)
	}
}

func (p *ProgressLogTaskImpl) Cleanup() {
	if p.dl != nil {
		p.dl.Close()
	}
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := metricsFileName(time.Now())
	if dl.file == nil || dl.currentFileName != fileName {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filepath.Join(dl.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		err := dl.file.Close()
		dl.file = nil
		return err
	}
	return nil
}

func metricsFileName(t time.Time) string {
	return fmt.Sprintf("metrics-%s.log", t.Format("2006-01-02"))
}
