package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// EnvPrefix namespaces generic overrides, e.g. CHATBOT_INDEX_CHUNK_SIZE.
const EnvPrefix = "CHATBOT_"

// DefaultPaths are searched in order when CONFIG_PATH is unset.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
}

// envAliases maps the plain variable names the deployment already uses.
var envAliases = map[string]string{
	"my_openai_key":     "llm.openai_api_key",
	"openai_api_key":    "llm.openai_api_key",
	"openai_base_url":   "llm.openai_base_url",
	"tmdb_api_key":      "catalog.api_key",
	"gemini_api_key":    "llm.gemini_api_key",
	"google_api_key":    "llm.gemini_api_key",
	"anthropic_api_key": "llm.anthropic_api_key",
	"qdrant_api_key":    "index.qdrant_api_key",
	"ollama_host":       "index.ollama_host",
	"log_level":         "logging.level",
	"log_format":        "logging.format",
	"log_file":          "logging.file",
	"port":              "server.port",
	"http_port":         "server.port",
}

// Load reads .env (if present), the config file (if any) and the
// environment, and returns a validated Config.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFile(findConfigFile())
}

// LoadFile is Load without the .env step and with an explicit file path;
// an empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform maps an environment variable to a koanf path. Unknown
// variables map to "" and are ignored.
//
//	TMDB_API_KEY               -> catalog.api_key
//	CHATBOT_INDEX_CHUNK_SIZE   -> index.chunk_size
//	CHATBOT_LLM_PROVIDER       -> llm.provider
func envTransform(key string) string {
	lower := strings.ToLower(key)
	if path, ok := envAliases[lower]; ok {
		return path
	}
	if !strings.HasPrefix(key, EnvPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(lower, strings.ToLower(EnvPrefix))
	section, field, ok := strings.Cut(rest, "_")
	if !ok || section == "" || field == "" {
		return ""
	}
	return section + "." + field
}
