package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/config"
)

var globalLogger zerolog.Logger

var envLogLevels = map[string]zerolog.Level{
	config.EnvLocal: zerolog.TraceLevel,
	config.EnvDev:   zerolog.DebugLevel,
	config.EnvProd:  zerolog.InfoLevel,
}

func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"
	zerolog.DurationFieldUnit = time.Millisecond

	globalLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	globalLogger.Info().Msg("initialized default logger")
}

func MustInitApplicationLogger() {
	cfg := config.Global()

	level, ok := envLogLevels[cfg.Env]
	if !ok {
		globalLogger.Error().
			Str("env", cfg.Env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", cfg.Env))
	}
	zerolog.SetGlobalLevel(level)

	w := io.Writer(os.Stdout)
	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	globalLogger = newApplicationLogger(globalLogger.Output(w), cfg)
	globalLogger.Info().
		Str("level", level.String()).
		Str("time_zone", cfg.TimeZone).
		Msg("initialized application logger")
}

// newApplicationLogger tags every record with the deployment it came from.
func newApplicationLogger(base zerolog.Logger, cfg *config.Config) zerolog.Logger {
	return base.With().
		Str("app", cfg.AppName).
		Str("env", cfg.Env).
		Str("storage_driver", cfg.StorageDriver).
		Logger()
}
