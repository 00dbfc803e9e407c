package service

import "errors"

var (
	// ErrProposalNotFound reports a lookup for a session with no proposal.
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrInsufficientResponses reports a narrative generation attempt before
	// the backing section has enough recorded answers.
	ErrInsufficientResponses = errors.New("not enough responses to generate this step")

	// ErrStateMismatch reports a proposal whose stored rule index has no
	// corresponding catalog entry. This is an internal-consistency fault and
	// is never silently skipped.
	ErrStateMismatch = errors.New("proposal state does not match rule catalog")

	// ErrConflictRetriesExhausted reports that concurrent writers kept
	// invalidating the version token past the retry budget.
	ErrConflictRetriesExhausted = errors.New("proposal update conflicted repeatedly")
)
