package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}

	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta (quotes stripped)", got)
	}
}

func TestLoadEnvFiles_OverrideOrderAndMissingFiles(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, filepath.Join(dir, "nope"), b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestApplyEnv_OverridesDefaultsOnly(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "special-model")

	cfg := Defaults()
	ApplyEnv(&cfg)
	if cfg.Port != 8081 {
		t.Fatalf("Port=%d, want 8081", cfg.Port)
	}
	if cfg.LLMAPIKey != "sk-test" {
		t.Fatalf("LLMAPIKey=%q, want sk-test", cfg.LLMAPIKey)
	}
	if cfg.LLMModel != "special-model" {
		t.Fatalf("LLMModel=%q, want special-model", cfg.LLMModel)
	}

	// An explicit (non-default) value wins over the environment.
	cfg = Defaults()
	cfg.Port = 9000
	ApplyEnv(&cfg)
	if cfg.Port != 9000 {
		t.Fatalf("explicit port overridden: got %d", cfg.Port)
	}
}

func TestApplyFileConfig_OverridesDefaultsOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siteinsight.yaml")
	content := "port: 4000\nllm:\n  model: file-model\n  key: file-key\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}

	cfg := Defaults()
	cfg.LLMAPIKey = "flag-key"
	ApplyFileConfig(&cfg, fc)
	if cfg.Port != 4000 {
		t.Fatalf("Port=%d, want 4000", cfg.Port)
	}
	if cfg.LLMModel != "file-model" {
		t.Fatalf("LLMModel=%q, want file-model", cfg.LLMModel)
	}
	if cfg.LLMAPIKey != "flag-key" {
		t.Fatalf("explicit key overridden: %q", cfg.LLMAPIKey)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siteinsight.json")
	if err := os.WriteFile(path, []byte(`{"port": 4100, "staticDir": "web"}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}
	if fc.Port != 4100 || fc.StaticDir != "web" {
		t.Fatalf("unexpected file config %+v", fc)
	}
}
