package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config selects level, encoding and destination of the application log.
type Config struct {
	Level      string // debug, info, warn, error, fatal
	Format     string // json or console
	OutputFile string // stdout, stderr or a file path
}

func (c Config) normalized() Config {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Level == "warning" {
		c.Level = "warn"
	}
	if _, err := zapcore.ParseLevel(c.Level); err != nil || c.Level == "" {
		c.Level = "info"
	}
	if c.Format != "console" && c.Format != "text" {
		c.Format = "json"
	}
	if c.OutputFile == "" {
		c.OutputFile = "stdout"
	}
	return c
}

// ZapLevel returns the configured level, falling back to info for unknown names.
func (c Config) ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.normalized().Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (c Config) encoding() string {
	if c.Format == "json" {
		return "json"
	}
	return "console"
}

func (c Config) writesToFile() bool {
	return c.OutputFile != "stdout" && c.OutputFile != "stderr"
}
