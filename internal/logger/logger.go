package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

var (
	Logger zerolog.Logger
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

func init() {
	// Quiet by default; rcode is a short-lived CLI and stdout belongs to the user.
	Logger = zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a LogLevel, defaulting to warn.
func ParseLevel(s string) LogLevel {
	switch LogLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelInfo:
		return LevelInfo
	case LevelError:
		return LevelError
	default:
		return LevelWarn
	}
}

// Configure sets up the global logger with the specified level. Output is a
// console writer when w is a terminal and JSON lines otherwise.
func Configure(level LogLevel, w io.Writer) zerolog.Logger {
	var zeroLevel zerolog.Level
	switch level {
	case LevelDebug:
		zeroLevel = zerolog.DebugLevel
	case LevelInfo:
		zeroLevel = zerolog.InfoLevel
	case LevelError:
		zeroLevel = zerolog.ErrorLevel
	default:
		zeroLevel = zerolog.WarnLevel
	}

	if w == nil {
		w = os.Stderr
	}
	if isTerminal(w) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	Logger = zerolog.New(w).Level(zeroLevel).With().Timestamp().Logger()
	log.Logger = Logger
	return Logger
}

// GetLogLevelFromEnv returns debug when DEBUG is set to a truthy value.
func GetLogLevelFromEnv() (LogLevel, bool) {
	debug := strings.ToLower(os.Getenv("DEBUG"))
	if debug == "true" || debug == "1" {
		return LevelDebug, true
	}
	return "", false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// WithField creates a logger with a field
func WithField(key string, value interface{}) zerolog.Logger {
	return Logger.With().Interface(key, value).Logger()
}
