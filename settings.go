package impsuite

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/toejough/impsuite/internal/core"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envPrefix = "IMPSUITE"

	timeoutKey       = "timeout"
	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// LogSettings configures the optional rotating log file.
type LogSettings struct {
	Filename   string
	Level      string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Settings holds the tunables a Suite can be built from.
type Settings struct {
	Timeout time.Duration
	Log     LogSettings
}

// LoadSettings reads settings from the YAML file at path (optional: a missing
// or empty path just uses defaults) and from IMPSUITE_* environment variables,
// which take precedence. For example IMPSUITE_TIMEOUT=10s or
// IMPSUITE_LOG_FILENAME=impsuite.log.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(timeoutKey, core.DefaultTimeout.String())
	v.SetDefault(logFilenameKey, "")
	v.SetDefault(logLevelKey, defaultLogLevel)
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	if path != "" {
		v.SetConfigFile(path)

		err := v.ReadInConfig()
		if err != nil && !isMissingConfig(err) {
			return Settings{}, fmt.Errorf("failed to read settings from %s: %w", path, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString(timeoutKey))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", timeoutKey, err)
	}

	return Settings{
		Timeout: timeout,
		Log: LogSettings{
			Filename:   v.GetString(logFilenameKey),
			Level:      v.GetString(logLevelKey),
			MaxSize:    v.GetInt(logMaxSizeKey),
			MaxBackups: v.GetInt(logMaxBackupsKey),
			MaxAge:     v.GetInt(logMaxAgeKey),
			Compress:   v.GetBool(logCompressKey),
		},
	}, nil
}

// WithSettings applies the timeout and logger described by s.
func WithSettings(s Settings) Option {
	logger := s.Logger()

	return func(e *core.Engine) {
		core.WithTimeout(s.Timeout)(e)
		core.WithLogger(logger)(e)
	}
}

// Logger builds the logger described by s. Without a filename it discards.
func (s Settings) Logger() *slog.Logger {
	if strings.TrimSpace(s.Log.Filename) == "" {
		return slog.New(slog.DiscardHandler)
	}

	logWriter := &lumberjack.Logger{
		Filename:   s.Log.Filename,
		MaxSize:    s.Log.MaxSize,
		MaxBackups: s.Log.MaxBackups,
		MaxAge:     s.Log.MaxAge,
		Compress:   s.Log.Compress,
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseSlogLevel(s.Log.Level, slog.LevelInfo),
	})

	return slog.New(handler)
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError

	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}
