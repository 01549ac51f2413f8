// Package logging provides config-driven categorized logging for liuyao, backed by zap.
// In debug mode each category writes to its own file under the configured directory.
// When debug mode is off every logger is a no-op, unless a base zap logger is attached
// (the CLI does this for --verbose), in which case categories become named children of it.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and shutdown
	CategoryConfig     Category = "config"     // Config loading and overrides
	CategoryCalendar   Category = "calendar"   // Solar/lunar conversion, gan-zhi
	CategoryHexagram   Category = "hexagram"   // Table loading, resolution, changed hexagrams
	CategoryDivination Category = "divination" // Casting and result assembly
	CategoryCLI        Category = "cli"        // Command handling
)

// Options mirrors the relevant parts of config.LoggingConfig
// to avoid an import cycle.
type Options struct {
	Level      string          // debug, info, warn, error
	JSONFormat bool            // JSON encoder instead of console
	DebugMode  bool            // Master toggle for file output
	Dir        string          // Directory for per-category files
	Categories map[string]bool // Per-category toggles; missing means enabled

	// Base, when non-nil, receives every enabled category regardless of DebugMode.
	Base *zap.Logger
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	opts      Options
	optsMu    sync.RWMutex
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Initialize applies logging options. Safe to call again; existing loggers are closed.
func Initialize(o Options) error {
	CloseAll()

	if o.DebugMode && o.Base == nil {
		if o.Dir == "" {
			return fmt.Errorf("logging directory required in debug mode")
		}
		if err := os.MkdirAll(o.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	optsMu.Lock()
	opts = o
	optsMu.Unlock()
	level.SetLevel(parseLevel(o.Level))

	boot := Get(CategoryBoot)
	boot.Info("logging initialized (debug_mode=%v, level=%s)", o.DebugMode, level.Level())
	if o.DebugMode && o.Base == nil {
		boot.Debug("logs directory: %s", o.Dir)
	}
	return nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsDebugMode returns whether file logging is enabled
func IsDebugMode() bool {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts.DebugMode
}

// IsCategoryEnabled returns whether a specific category produces output
func IsCategoryEnabled(category Category) bool {
	optsMu.RLock()
	defer optsMu.RUnlock()

	if !opts.DebugMode && opts.Base == nil {
		return false
	}
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	l, err := newLogger(category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: %v\n", err)
		return &Logger{category: category}
	}
	loggers[category] = l
	return l
}

func newLogger(category Category) (*Logger, error) {
	optsMu.RLock()
	o := opts
	optsMu.RUnlock()

	if o.Base != nil {
		return &Logger{
			category: category,
			sugar:    o.Base.Named(string(category)).Sugar(),
		}, nil
	}

	// Date prefix keeps one file per category per day
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(o.Dir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file %s: %w", logPath, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if o.JSONFormat {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(file), level)
	return &Logger{
		category: category,
		sugar:    zap.New(core).Named(string(category)).Sugar(),
		file:     file,
	}, nil
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.sugar == nil {
		return
	}
	l.sugar.Errorf(format, args...)
}

// StructuredLog writes one entry with key/value fields attached.
func (l *Logger) StructuredLog(lvl string, msg string, fields map[string]interface{}) {
	if l.sugar == nil {
		return
	}
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	switch parseLevel(lvl) {
	case zapcore.DebugLevel:
		l.sugar.Debugw(msg, kv...)
	case zapcore.WarnLevel:
		l.sugar.Warnw(msg, kv...)
	case zapcore.ErrorLevel:
		l.sugar.Errorw(msg, kv...)
	default:
		l.sugar.Infow(msg, kv...)
	}
}

// WithFields returns a logger that attaches the given fields to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	if l.sugar == nil {
		return l
	}
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Logger{category: l.category, sugar: l.sugar.With(kv...)}
}

// CloseAll flushes and closes all open log files (call at shutdown)
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.sugar != nil {
			_ = l.sugar.Sync()
		}
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// ConfigDebug logs debug to the config category
func ConfigDebug(format string, args ...interface{}) {
	Get(CategoryConfig).Debug(format, args...)
}

// ConfigWarn logs warning to the config category
func ConfigWarn(format string, args ...interface{}) {
	Get(CategoryConfig).Warn(format, args...)
}

// CalendarDebug logs debug to the calendar category
func CalendarDebug(format string, args ...interface{}) {
	Get(CategoryCalendar).Debug(format, args...)
}

// CalendarWarn logs warning to the calendar category
func CalendarWarn(format string, args ...interface{}) {
	Get(CategoryCalendar).Warn(format, args...)
}

// Hexagram logs to the hexagram category
func Hexagram(format string, args ...interface{}) {
	Get(CategoryHexagram).Info(format, args...)
}

// HexagramDebug logs debug to the hexagram category
func HexagramDebug(format string, args ...interface{}) {
	Get(CategoryHexagram).Debug(format, args...)
}

// HexagramError logs error to the hexagram category
func HexagramError(format string, args ...interface{}) {
	Get(CategoryHexagram).Error(format, args...)
}

// Divination logs to the divination category
func Divination(format string, args ...interface{}) {
	Get(CategoryDivination).Info(format, args...)
}

// DivinationDebug logs debug to the divination category
func DivinationDebug(format string, args ...interface{}) {
	Get(CategoryDivination).Debug(format, args...)
}

// DivinationWarn logs warning to the divination category
func DivinationWarn(format string, args ...interface{}) {
	Get(CategoryDivination).Warn(format, args...)
}

// CLIDebug logs debug to the cli category
func CLIDebug(format string, args ...interface{}) {
	Get(CategoryCLI).Debug(format, args...)
}

// =============================================================================
// TIMING
// =============================================================================

// Timer measures one operation for a category.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
