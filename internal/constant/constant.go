package constant

// Section names, in the fixed order the questionnaire walks them.
const (
	SectionInformation  = "information"
	SectionAssessment   = "assessment"
	SectionResponsePlan = "responsePlan"
	SectionReview       = "review"
)

// SectionOrder is the canonical traversal order. A later section is never
// active while an earlier one is incomplete.
var SectionOrder = []string{
	SectionInformation,
	SectionAssessment,
	SectionResponsePlan,
	SectionReview,
}

// Chat turn statuses returned by the conversation driver.
const (
	ChatStatusSuccess          = "success"
	ChatStatusRetry            = "retry"
	ChatStatusSectionCompleted = "section_completed"
	ChatStatusDone             = "done"
	ChatStatusError            = "error"
)

// Generation steps accepted by the narrative generator.
const (
	GenerateStepInformation = "information"
	GenerateStepHazard      = "hazard"
	GenerateStepResponse    = "response"
)

// Intent labels produced by the classifier.
const (
	IntentConversation = "conversation"
	IntentValidation   = "validation"
)
