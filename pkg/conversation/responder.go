package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"eop-planner-be/pkg/llm"
)

// Responder produces the friendly redirect reply for casual messages.
type Responder struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewResponder(provider llm.LLMProvider, logger *log.Logger) *Responder {
	return &Responder{provider: provider, logger: logger}
}

// Reply acknowledges the small talk and steers the user back to the active
// rule. Provider failure degrades to a canned line referencing the rule.
func (r *Responder) Reply(ctx context.Context, ruleText, message string) string {
	reply, err := r.provider.Generate(ctx, buildCasualPrompt(message, ruleText))
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("casual reply generation failed: %v", err)
		}
		return fmt.Sprintf(
			"Hi there! I'm here to help you complete your Emergency Operations Plan. For this section — %q — feel free to share any info you have related to that.",
			ruleText,
		)
	}
	return strings.TrimSpace(reply)
}
