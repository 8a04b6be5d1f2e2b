package openaibackend

import (
	"fmt"
	"os"
)

// EnvConfig resolves backend credentials through environment variable
// indirection: the config names the variables, not the values, so prompt-set
// files can be committed without secrets.
type EnvConfig struct {
	BaseUrlKey   string `json:"baseUrlKey"`
	ApiKeyKey    string `json:"apiKeyKey"`
	ModelNameKey string `json:"modelNameKey"`
}

func (cfg *EnvConfig) BaseUrl() string {
	return os.Getenv(cfg.BaseUrlKey)
}

func (cfg *EnvConfig) ApiKey() string {
	return os.Getenv(cfg.ApiKeyKey)
}

func (cfg *EnvConfig) ModelName() string {
	return os.Getenv(cfg.ModelNameKey)
}

func (cfg *EnvConfig) Validate() error {
	if cfg.BaseUrlKey == "" || cfg.ApiKeyKey == "" || cfg.ModelNameKey == "" {
		return fmt.Errorf("baseUrlKey, apiKeyKey and modelNameKey must all be specified")
	}

	return nil
}

// DefaultEnvConfig reads the conventional MODEL_* variables.
func DefaultEnvConfig() *EnvConfig {
	return &EnvConfig{
		BaseUrlKey:   "MODEL_BASE_URL",
		ApiKeyKey:    "MODEL_KEY",
		ModelNameKey: "MODEL_NAME",
	}
}
