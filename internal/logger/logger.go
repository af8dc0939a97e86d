package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is usable before Init so packages and tests never hit a nil logger.
var Logger = slog.Default()

// Init builds the process logger. Output goes to stderr so it stays out of
// the interactive prompt on stdout.
func Init(debug bool) {
	InitWithWriter(os.Stderr, debug)
}

func InitWithWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
