package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"stratify/internal/config"
	"stratify/internal/llm"
	"stratify/internal/llmclient"
)

// buildFallback assembles the provider chain from config: Gemini first,
// Groq second, each wrapped with retry, rate limiting and call logging.
// Offline mode (or no API keys) swaps in the deterministic fake client.
func buildFallback(ctx context.Context, cfg *config.Config) (*llmclient.Fallback, error) {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	groqKey := os.Getenv("GROQ_API_KEY")

	if cfg.LLM.Offline || (geminiKey == "" && groqKey == "") {
		return llmclient.NewFallback(llm.NewFakeClient(8192)), nil
	}

	mws := []llm.Middleware{
		llm.Retry(cfg.LLM.RetryAttempts, time.Duration(cfg.LLM.RetryBaseMS)*time.Millisecond),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
		llm.WithLogging(log.New(os.Stderr, "llm ", log.LstdFlags)),
	}

	var clients []llmclient.LLMClient
	if geminiKey != "" {
		g, err := llmclient.NewGeminiClient(ctx, geminiKey, cfg.LLM.GeminiModel, 1_000_000)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		clients = append(clients, llm.Wrap(g, mws...))
	}
	if groqKey != "" {
		q, err := llmclient.NewGroqClient(groqKey, cfg.LLM.GroqModel, 128_000)
		if err != nil {
			return nil, fmt.Errorf("groq client: %w", err)
		}
		clients = append(clients, llm.Wrap(q, mws...))
	}
	return llmclient.NewFallback(clients...), nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// writeJSON writes v as indented JSON, creating parent directories.
// An empty path writes to stdout.
func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Println(string(raw))
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

func writeText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func readJSONFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
