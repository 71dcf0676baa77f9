package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	logger     zerolog.Logger
	loggerOnce sync.Once
)

// initLogger initializes the global logger to write to stderr with timestamps.
// Default minimum level is INFO.
func initLogger() {
	loggerOnce.Do(func() {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	})
}

func SetLevel(l Level) {
	initLogger()
	switch l {
	case LevelDebug:
		logger = logger.Level(zerolog.DebugLevel)
	case LevelInfo:
		logger = logger.Level(zerolog.InfoLevel)
	case LevelWarn:
		logger = logger.Level(zerolog.WarnLevel)
	case LevelError:
		logger = logger.Level(zerolog.ErrorLevel)
	}
}

func Debug(msg string, kv ...any) {
	initLogger()
	applyKVs(logger.Debug(), kv...).Msg(msg)
}

func Info(msg string, kv ...any) {
	initLogger()
	applyKVs(logger.Info(), kv...).Msg(msg)
}

func Warn(msg string, kv ...any) {
	initLogger()
	applyKVs(logger.Warn(), kv...).Msg(msg)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	applyKVs(logger.Error().Err(err), kv...).Msg(msg)
}

// applyKVs attaches structured key-value pairs to the event. Expect kv as
// pairs: key, value, key, value, ... If the argument count is odd, the last
// one is ignored.
func applyKVs(ev *zerolog.Event, kv ...any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	return ev
}
