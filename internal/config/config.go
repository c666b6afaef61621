// Package config loads runtime settings from an optional YAML file plus
// environment variables. Env vars win over the file; defaults cover the
// rest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`

	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMConfig      `yaml:"llm"`
	Cache    CacheConfig    `yaml:"cache"`
}

// AnalysisConfig carries the pipeline tunables. Defaults match observed
// product behavior; change only with product guidance.
type AnalysisConfig struct {
	// SignificantThreshold gates comparisons into narrative synthesis.
	SignificantThreshold float64 `yaml:"significant_threshold"`
	// BridgeTopN caps each derived opportunity/threat list.
	BridgeTopN int `yaml:"bridge_top_n"`
}

type LLMConfig struct {
	GeminiModel   string  `yaml:"gemini_model"`
	GroqModel     string  `yaml:"groq_model"`
	RPS           float64 `yaml:"rps"`
	Burst         int     `yaml:"burst"`
	RetryAttempts int     `yaml:"retry_attempts"`
	RetryBaseMS   int     `yaml:"retry_base_ms"`
	// Offline swaps real providers for the deterministic fake client.
	Offline bool `yaml:"offline"`
}

type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLMinutes int `yaml:"ttl_minutes"`
}

// Load reads .env, an optional YAML file (STRATIFY_CONFIG or
// ./stratify.yaml), then applies env overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	path := strings.TrimSpace(os.Getenv("STRATIFY_CONFIG"))
	if path == "" {
		path = "stratify.yaml"
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if os.Getenv("STRATIFY_CONFIG") != "" {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(cfg)
	normalize(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port: ":8082",
		Env:  "local",
		Analysis: AnalysisConfig{
			SignificantThreshold: 0.6,
			BridgeTopN:           5,
		},
		LLM: LLMConfig{
			GeminiModel:   "gemini-2.5-flash",
			GroqModel:     "llama-3.3-70b-versatile",
			RetryAttempts: 3,
			RetryBaseMS:   300,
		},
		Cache: CacheConfig{
			MaxEntries: 256,
			TTLMinutes: 30,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.Env = v
	}
	if v := readFloat("SIGNIFICANT_THRESHOLD"); v > 0 {
		cfg.Analysis.SignificantThreshold = v
	}
	if v := readInt("BRIDGE_TOP_N"); v > 0 {
		cfg.Analysis.BridgeTopN = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		cfg.LLM.GeminiModel = v
	}
	if v := strings.TrimSpace(os.Getenv("GROQ_MODEL")); v != "" {
		cfg.LLM.GroqModel = v
	}
	if v := readFloat("LLM_RPS"); v > 0 {
		cfg.LLM.RPS = v
	}
	if v := readInt("LLM_BURST"); v > 0 {
		cfg.LLM.Burst = v
	}
	if v := strings.TrimSpace(os.Getenv("LLM_OFFLINE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LLM.Offline = b
		}
	}
}

func normalize(cfg *Config) {
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	if cfg.Analysis.SignificantThreshold <= 0 || cfg.Analysis.SignificantThreshold > 1 {
		cfg.Analysis.SignificantThreshold = 0.6
	}
	if cfg.Analysis.BridgeTopN <= 0 {
		cfg.Analysis.BridgeTopN = 5
	}
	if cfg.LLM.RetryAttempts < 1 {
		cfg.LLM.RetryAttempts = 1
	}
	if cfg.LLM.RetryBaseMS <= 0 {
		cfg.LLM.RetryBaseMS = 300
	}
}

func readFloat(key string) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func readInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}
