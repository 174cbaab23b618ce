package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/gossip-village/internal/config"
	"github.com/jwebster45206/gossip-village/pkg/engine"
)

// NewOracle builds the oracle selected by ORACLE_PROVIDER.
func NewOracle(ctx context.Context, cfg *config.Config, logger *slog.Logger) (engine.Oracle, error) {
	var completer Completer
	switch cfg.OracleProvider {
	case config.ProviderMock:
		logger.Warn("Using the offline mock oracle")
		return NewMockOracle(), nil
	case config.ProviderGemini:
		g, err := NewGeminiCompleter(ctx, GeminiConfig{
			APIKey:   cfg.GeminiAPIKey,
			Project:  cfg.GeminiProject,
			Location: cfg.GeminiLocation,
			Model:    cfg.GeminiModel,
		}, logger)
		if err != nil {
			return nil, err
		}
		completer = g
	case config.ProviderOpenAI:
		completer = NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OracleTimeout, logger)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.OracleProvider)
	}

	schemas, err := LoadSchemas()
	if err != nil {
		return nil, err
	}
	logger.Info("Oracle configured", "backend", completer.Name(), "max_attempts", cfg.OracleMaxAttempts)
	return NewLLMOracle(completer, schemas, logger).WithRetry(cfg.OracleMaxAttempts, cfg.OracleBackoff), nil
}
