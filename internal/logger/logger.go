package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kaedeh1ra/QR-Detector/internal/config"
)

// Format is an output format for log lines.
type Format int

const (
	FormatConsole Format = iota
	FormatJSON
	FormatText
)

// ParseFormat maps a config string to a Format, defaulting to console.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// New builds a logger writing to stderr and, when configured, to a rotated log file.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit console destination.
func NewWithOutput(cfg config.LogConfig, console io.Writer) (zerolog.Logger, error) {
	format := ParseFormat(cfg.LogFormat)
	writers := []io.Writer{formatWriter(console, format, false)}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return zerolog.Logger{}, fmt.Errorf("create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    orDefault(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
			MaxBackups: orDefault(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
			LocalTime:  true,
		}
		writers = append(writers, formatWriter(file, format, true))
	}

	level := ParseLevel(cfg.LogLevel)
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

func formatWriter(out io.Writer, format Format, isFile bool) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatText:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: isFile}
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
