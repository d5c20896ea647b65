package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RESTConfig struct {
	Port string
}

type FavoritesConfig struct {
	FilePath string
}

type UpstreamConfig struct {
	BaseURL       string
	MirrorBaseURL string
	TimeoutMs     int
}

type MediaConfig struct {
	TimeoutMs int
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	Rest         RESTConfig
	Favorites    FavoritesConfig
	Upstream     UpstreamConfig
	Media        MediaConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
}

// LoadConfig reads configuration from environment variables, optionally
// seeded from a .env file. A missing .env is fine; the environment wins.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: no .env file loaded (%v), relying on environment.", err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "discovery-hub")
	cfg.Rest.Port = getEnvAsString("PORT", "8188")
	cfg.Favorites.FilePath = getEnvAsString("FAVORITES_FILE", "civitai_favorites.json")

	cfg.Upstream.BaseURL = getEnvAsString("CIVITAI_BASE_URL", "https://civitai.com/api/v1/images")
	cfg.Upstream.MirrorBaseURL = getEnvAsString("CIVITAI_MIRROR_BASE_URL", "https://civitai.work/api/v1/images")
	cfg.Upstream.TimeoutMs = getEnvAsInt("UPSTREAM_TIMEOUT_MS", 20000)

	cfg.Media.TimeoutMs = getEnvAsInt("MEDIA_TIMEOUT_MS", 30000)

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
