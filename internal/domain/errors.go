package domain

import "errors"

var (
	// ErrNoApprovedCategories is returned when start-quiz finds no category with enough suggesters.
	ErrNoApprovedCategories = errors.New("need at least one category with 3 or more votes to start the quiz")
	// ErrNoCategoryQuestions is returned when no approved category has any question.
	ErrNoCategoryQuestions = errors.New("none of the approved categories have questions yet")
	// ErrUnknownAction indicates an inbound message type the dispatcher does not handle.
	ErrUnknownAction = errors.New("unsupported message type")
	// ErrInvalidPayload indicates an inbound payload that could not be decoded.
	ErrInvalidPayload = errors.New("invalid payload")
)
