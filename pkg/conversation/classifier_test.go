package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Intent
	}{
		{"conversation label", "conversation", IntentConversation},
		{"uppercase label", "CONVERSATION", IntentConversation},
		{"padded label", "  conversation \n", IntentConversation},
		{"validation label", "validation", IntentValidation},
		{"unexpected reply", "I think this is small talk", IntentValidation},
		{"empty reply", "", IntentValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&fakeProvider{reply: tt.reply}, nil)
			assert.Equal(t, tt.want, c.Classify(context.Background(), "hello"))
		})
	}
}

func TestClassifyDefaultsToValidationOnFailure(t *testing.T) {
	c := NewClassifier(&fakeProvider{err: errors.New("unreachable")}, nil)
	assert.Equal(t, IntentValidation, c.Classify(context.Background(), "hello"))
}

func TestResponderFallsBackToCannedReply(t *testing.T) {
	r := NewResponder(&fakeProvider{err: errors.New("unreachable")}, nil)
	reply := r.Reply(context.Background(), "Organization name must be provided.", "hi!")

	assert.Contains(t, reply, "Emergency Operations Plan")
	assert.Contains(t, reply, "Organization name must be provided.")
}

func TestResponderTrimsModelReply(t *testing.T) {
	r := NewResponder(&fakeProvider{reply: "  Hi there! Let's continue.  \n"}, nil)
	reply := r.Reply(context.Background(), "rule", "hello")
	assert.Equal(t, "Hi there! Let's continue.", reply)
}
