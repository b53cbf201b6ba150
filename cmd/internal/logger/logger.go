package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
)

// Fields 는 구조화 로그에 함께 기록할 key/value 묶음이다.
type Fields = slog.M

// Log 는 프로세스 전역 로거. Init 전에도 info 레벨 JSON 로거로 동작한다.
var Log = newJSON("info")

func newJSON(level string) *slog.SugaredLogger {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	return slog.NewJSONSugared(os.Stdout, slog.LevelByName(level))
}

// Init replaces the global logger with one at the given level name (debug, info, warn, error).
func Init(level string) {
	Log = newJSON(level)
}

// InitFromEnv reads the level name from the given environment variable.
func InitFromEnv(key string) {
	Init(os.Getenv(key))
}

func DebugWithFields(msg string, fields Fields) {
	Log.WithFields(fields).Debug(msg)
}

func InfoWithFields(msg string, fields Fields) {
	Log.WithFields(fields).Info(msg)
}

func WarnWithFields(msg string, fields Fields) {
	Log.WithFields(fields).Warn(msg)
}

func ErrorWithFields(msg string, fields Fields) {
	Log.WithFields(fields).Error(msg)
}
