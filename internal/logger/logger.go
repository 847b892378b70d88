// Package logger is the process-wide structured logger. Records go to a
// rotating logfmt file; debug mode also prints them to stderr. Every helper
// is a no-op until Init runs, so library code and tests stay quiet.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
)

type Config struct {
	Debug bool
	// ConfigDir holds the logs directory.
	ConfigDir string
	// Console receives human-readable records in debug mode. Defaults to
	// stderr.
	Console io.Writer
}

var (
	mu      sync.RWMutex
	file    *lumberjack.Logger
	sinks   []*log.Logger
	logPath string
)

func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	next := []*log.Logger{log.NewWithOptions(rotating, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Formatter:       log.LogfmtFormatter,
	})}

	if cfg.Debug {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		next = append(next, log.NewWithOptions(console, log.Options{
			ReportCaller: true,
			Level:        level,
			Prefix:       constants.AppName,
		}))
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	file, sinks, logPath = rotating, next, rotating.Filename
	return nil
}

// Path is the current log file, or "" before Init.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

// Close flushes and detaches the log file. Later calls log nothing.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	sinks, logPath = nil, ""
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func emit(level log.Level, msg string, keyvals []interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range sinks {
		// Skip the emit frame so callers show up in debug output.
		l.Helper()
		l.Log(level, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...interface{}) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...interface{}) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...interface{}) { emit(log.ErrorLevel, msg, keyvals) }
