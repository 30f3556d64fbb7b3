package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-task-manager/internal/config"
)

const configPathEnv = "CONFIG_PATH"

func MustReadConfig() {
	var reader config.Reader = config.NewEnvReader()
	path := os.Getenv(configPathEnv)
	if path != "" {
		reader = config.NewFileReader(path)
	}

	cfg, err := reader.Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("config_path", path).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("config_path", path).
		Str("storage_driver", cfg.StorageDriver).
		Msg("read config")

	config.SetGlobal(cfg)
}
