package conversation

import (
	"context"
	"log"
	"strings"

	"eop-planner-be/pkg/llm"
)

// Intent labels a message as small talk or a substantive answer.
type Intent string

const (
	IntentConversation Intent = "conversation"
	IntentValidation   Intent = "validation"
)

// Classifier decides whether a message should be routed to validation or
// handled as casual conversation.
type Classifier struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewClassifier(provider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{provider: provider, logger: logger}
}

// Classify labels the message. On any provider failure it defaults to
// IntentValidation: ambiguous input becomes something to validate rather
// than a silently skipped turn.
func (c *Classifier) Classify(ctx context.Context, message string) Intent {
	reply, err := c.provider.Generate(ctx, buildIntentPrompt(message))
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("intent classification failed, defaulting to validation: %v", err)
		}
		return IntentValidation
	}

	if strings.EqualFold(strings.TrimSpace(reply), string(IntentConversation)) {
		return IntentConversation
	}
	return IntentValidation
}
