package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the application configuration, loaded once at startup and
// threaded explicitly through constructors. Components never read the
// environment themselves.
type Config struct {
	Server struct {
		Port           int      `koanf:"port"`
		AllowedOrigins []string `koanf:"allowed_origins"`
	} `koanf:"server"`

	GitHub struct {
		Token         string `koanf:"token"`
		WebhookSecret string `koanf:"webhook_secret"`
	} `koanf:"github"`

	AI struct {
		AnthropicAPIKey string `koanf:"anthropic_api_key"`
		OpenAIAPIKey    string `koanf:"openai_api_key"`
		Model           string `koanf:"model"`
		ReviewTimeoutMS int    `koanf:"review_timeout_ms"`
	} `koanf:"ai"`

	Review struct {
		MaxFilesToReview int    `koanf:"max_files_to_review"`
		MaxLinesPerFile  int    `koanf:"max_lines_per_file"`
		MinSeverity      string `koanf:"min_severity"`
	} `koanf:"review"`

	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`
}

// ReviewTimeout returns the per-backend-call timeout as a duration.
func (c *Config) ReviewTimeout() time.Duration {
	return time.Duration(c.AI.ReviewTimeoutMS) * time.Millisecond
}

// envKeys maps the flat environment variable names to config keys.
var envKeys = map[string]string{
	"PORT":                  "server.port",
	"ALLOWED_ORIGINS":       "server.allowed_origins",
	"GITHUB_TOKEN":          "github.token",
	"GITHUB_WEBHOOK_SECRET": "github.webhook_secret",
	"ANTHROPIC_API_KEY":     "ai.anthropic_api_key",
	"OPENAI_API_KEY":        "ai.openai_api_key",
	"AI_MODEL":              "ai.model",
	"REVIEW_TIMEOUT_MS":     "ai.review_timeout_ms",
	"MAX_FILES_TO_REVIEW":   "review.max_files_to_review",
	"MAX_LINES_PER_FILE":    "review.max_lines_per_file",
	"MIN_SEVERITY":          "review.min_severity",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
}

// LoadConfig loads the configuration: built-in defaults, then an optional
// TOML file, then environment variables (highest precedence).
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"server.port":                8000,
		"ai.review_timeout_ms":       30000,
		"review.max_files_to_review": 20,
		"review.max_lines_per_file":  1000,
		"review.min_severity":        "info",
		"log.level":                  "info",
		"log.format":                 "json",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./reviewloop.toml", "$HOME/.reviewloop.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig writes a sample configuration file.
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# reviewloop configuration

[server]
port = 8000
allowed_origins = []

[github]
token = "your-github-token"
webhook_secret = "your-webhook-secret"

[ai]
anthropic_api_key = ""
openai_api_key = ""
review_timeout_ms = 30000

[review]
max_files_to_review = 20
max_lines_per_file = 1000
min_severity = "info"

[log]
level = "info"
format = "json"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate checks that the configuration is internally consistent. A
// missing webhook secret and missing AI credentials are both permitted
// (permissive verification and the mock backend cover those cases), so
// validation only rejects values that would break the pipeline outright.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}
	if config.Review.MaxFilesToReview <= 0 {
		return fmt.Errorf("max_files_to_review must be positive")
	}
	if config.Review.MaxLinesPerFile <= 0 {
		return fmt.Errorf("max_lines_per_file must be positive")
	}
	if config.AI.ReviewTimeoutMS <= 0 {
		return fmt.Errorf("review_timeout_ms must be positive")
	}
	switch config.Review.MinSeverity {
	case "", "info", "warning", "error":
	default:
		return fmt.Errorf("min_severity %q is not one of info, warning, error", config.Review.MinSeverity)
	}
	return nil
}
