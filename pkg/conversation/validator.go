package conversation

import (
	"context"
	"log"
	"strings"

	"eop-planner-be/pkg/llm"
)

// GenericRetryPrompt is the degraded coaching message used when the external
// model is unreachable. The conversation never stalls silently.
const GenericRetryPrompt = "I couldn't check that answer just now. Could you try sending it again in a moment?"

// Verdict is the outcome of validating one answer against one rule.
// Guidance is empty when Valid.
type Verdict struct {
	Valid    bool
	Guidance string
}

// Validator judges whether a free-text answer adequately addresses a rule.
type Validator struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewValidator(provider llm.LLMProvider, logger *log.Logger) *Validator {
	return &Validator{provider: provider, logger: logger}
}

// Validate delegates the judgment to the model. An exact "VALID" token
// (case-insensitive, trimmed) means acceptance; any other reply is wrapped
// into a coaching message. Provider failure degrades to invalid with the
// generic retry prompt.
func (v *Validator) Validate(ctx context.Context, ruleText, answerText string) Verdict {
	reply, err := v.provider.Generate(ctx, buildValidationPrompt(ruleText, answerText))
	if err != nil {
		if v.logger != nil {
			v.logger.Printf("answer validation failed for rule %q: %v", ruleText, err)
		}
		return Verdict{Valid: false, Guidance: GenericRetryPrompt}
	}

	clean := strings.TrimSpace(reply)
	if strings.EqualFold(clean, "valid") {
		return Verdict{Valid: true}
	}

	return Verdict{Valid: false, Guidance: wrapGuidance(clean)}
}
