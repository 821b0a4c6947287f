package advisory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/beejsebazaar/advisor/internal/domain/structurer"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
	"github.com/beejsebazaar/advisor/pkg/metrics"
)

// Run performs exactly one generation call for req.Feature and records its
// outcome. Refused generations are returned without error so callers can
// decide how to surface them.
func Run(ctx context.Context, gen Generator, req GenerateRequest, logger *slog.Logger) (Generation, error) {
	result, err := gen.Generate(ctx, req)
	if err != nil {
		metrics.Generations.WithLabelValues(req.Feature, metrics.OutcomeError).Inc()
		if errors.Is(err, ErrNotConfigured) {
			return Generation{}, apperrors.Wrap(apperrors.CodeConfigMissing, "AI generation is not configured: the API key is missing", err)
		}
		return Generation{}, apperrors.Wrap(apperrors.CodeLLMError, "AI generation request failed", err)
	}

	outcome := metrics.OutcomeOK
	if refusal, refused := structurer.CheckRefusal(result.Reply()); refused {
		outcome = metrics.OutcomeBlocked
		if refusal.Kind == structurer.FailureTruncated {
			outcome = metrics.OutcomeTruncated
		}
	}
	metrics.Generations.WithLabelValues(req.Feature, outcome).Inc()
	result.Usage.Record(req.Feature)

	logger.Info("generation completed",
		"feature", req.Feature,
		"model", result.Model,
		"finish_reason", result.FinishReason,
		"block_reason", result.BlockReason,
		"chars", len(result.Text),
		"total_tokens", result.Usage.TotalTokens,
	)
	logger.Debug("generation reply", "feature", req.Feature, "text", result.Text)
	return result, nil
}

// EnsureConfigured returns config_missing when gen has no credentials.
func EnsureConfigured(gen Generator) error {
	if gen.Configured() {
		return nil
	}
	return apperrors.Wrap(apperrors.CodeConfigMissing, "AI generation is not configured: the API key is missing", ErrNotConfigured)
}

// RequireAnswer turns a blocked or truncated generation into a
// generation_refused error whose message names the reason.
func RequireAnswer(result Generation) error {
	refusal, refused := structurer.CheckRefusal(result.Reply())
	if !refused {
		return nil
	}
	return apperrors.Wrap(apperrors.CodeGenerationRefused, refusal.Message, nil)
}
