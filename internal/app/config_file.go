package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to the flag/env namespace.
type FileConfig struct {
	Port      int    `yaml:"port" json:"port"`
	StaticDir string `yaml:"staticDir" json:"staticDir"`

	LLM struct {
		BaseURL   string `yaml:"base" json:"base"`
		Model     string `yaml:"model" json:"model"`
		APIKey    string `yaml:"key" json:"key"`
		MaxTokens int    `yaml:"maxTokens" json:"maxTokens"`
	} `yaml:"llm" json:"llm"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		UserAgent string        `yaml:"ua" json:"ua"`
	} `yaml:"fetch" json:"fetch"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for any fields still at
// their default, so explicit flags and environment keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	def := Defaults()
	if cfg.Port == def.Port && fc.Port > 0 {
		cfg.Port = fc.Port
	}
	if cfg.StaticDir == def.StaticDir && fc.StaticDir != "" {
		cfg.StaticDir = fc.StaticDir
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == def.LLMModel && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.LLMMaxTokens == def.LLMMaxTokens && fc.LLM.MaxTokens > 0 {
		cfg.LLMMaxTokens = fc.LLM.MaxTokens
	}
	if cfg.FetchTimeout == def.FetchTimeout && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.FetchUserAgent == "" {
		cfg.FetchUserAgent = fc.Fetch.UserAgent
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
