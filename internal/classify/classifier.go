package classify

import (
	"context"
	"log/slog"

	"github.com/solosoyfranco/LibrAIry/internal/logging"
)

// Completer is the slice of the LLM client the classifier needs. A nil
// Completer means "no LLM configured"; callers must pass nil rather than a
// nil concrete pointer so the interface comparison stays honest.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Classifier produces records for inbox items, preferring the LLM and
// degrading to the rule engine. Classification never fails a run; the worst
// outcome is a low-confidence record that routes the item to review.
type Classifier struct {
	completer Completer
	rules     *Ruleset
	library   []string
	logger    *slog.Logger
}

// New builds a classifier. rules must not be nil; completer may be.
func New(completer Completer, rules *Ruleset, libraryFolders []string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{
		completer: completer,
		rules:     rules,
		library:   libraryFolders,
		logger:    logger,
	}
}

// Classify returns a normalized record for the source.
func (c *Classifier) Classify(ctx context.Context, src Source) Record {
	if c.completer != nil {
		content, err := c.completer.CompleteJSON(ctx, ClassificationPrompt, UserPrompt(src, c.library))
		if err == nil {
			rec, parseErr := ParseRecord(content, src)
			if parseErr == nil {
				c.logger.Debug("llm classification",
					logging.String("item", itemDisplayName(src)),
					logging.String("recommended_path", rec.RecommendedPath),
					logging.Float64("confidence", rec.Confidence))
				return rec
			}
			err = parseErr
		}
		c.logger.Warn("llm classification failed, using rule engine",
			logging.String("item", itemDisplayName(src)),
			logging.Error(err))
	}

	rec := c.rules.Classify(src)
	c.logger.Debug("rule classification",
		logging.String("item", itemDisplayName(src)),
		logging.String("recommended_path", rec.RecommendedPath),
		logging.Float64("confidence", rec.Confidence))
	return rec
}
