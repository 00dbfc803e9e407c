package conversation

import (
	"fmt"
	"strings"
)

const intentPromptTemplate = `You are an AI helper. Your job is to classify the user's intent into two categories:

- "conversation": if the message sounds like a greeting, general comment, confusion, small talk, or casual response.
- "validation": if the message is a specific, serious, or relevant answer to a government form or rule.

Examples:
"Hi there" -> conversation
"hello!" -> conversation
"how are you?" -> conversation
"my name is Diwas Pandit" -> validation
"My plan includes all critical infrastructure." -> validation

Now classify the following:
"%s"

Reply with only one word: "conversation" or "validation".`

const validationPromptTemplate = `You're validating a user's answer to a question on a government form.

Question: "%s"
User's Answer: "%s"

Your job is to:
1. Decide if the answer is appropriate and complete for this question.
2. If yes, say: VALID.
3. If not, respond like this:

"We're expecting something like: [brief description or example]. Your answer might be incomplete or unclear. Could you please try again?"

Always reply with either "VALID" or the polite response.

EXAMPLES:
---
Q: "Organization name must be provided."
A: "Texas Rescue Center"
-> VALID

Q: "Organization name must be provided."
A: "idk"
-> We're expecting something like: the full legal name of your organization. Your answer might be incomplete or unclear. Could you please try again?

---
Now process:
Q: "%s"
A: "%s"`

const casualPromptTemplate = `You are a friendly assistant helping a user complete a government emergency operations form.

The user just sent a message that seems casual, like a greeting or off-topic remark:
"%s"

The user is currently on this section of the form:
"%s"

Your job:
1. Acknowledge the user's tone in a warm and polite way.
2. Briefly explain that you're assisting with an official Emergency Operations Plan (EOP) form.
3. Gently guide them back to the current question or rule without sounding robotic.
4. Encourage them to give a response that aligns with the current topic.

Keep your tone human, calm, helpful, and brief. Do not repeat the user's message.

Now generate a response.`

const guidanceWrapperTemplate = `It looks like your response might be missing some details.

Here's an example of what we're looking for:
%s

Could you try rephrasing or adding more info? Let me know if you need help!`

func buildIntentPrompt(message string) string {
	return strings.TrimSpace(fmt.Sprintf(intentPromptTemplate, message))
}

func buildValidationPrompt(rule, answer string) string {
	return strings.TrimSpace(fmt.Sprintf(validationPromptTemplate, rule, answer, rule, answer))
}

func buildCasualPrompt(message, rule string) string {
	return strings.TrimSpace(fmt.Sprintf(casualPromptTemplate, message, rule))
}

func wrapGuidance(modelReply string) string {
	return strings.TrimSpace(fmt.Sprintf(guidanceWrapperTemplate, strings.TrimSpace(modelReply)))
}
