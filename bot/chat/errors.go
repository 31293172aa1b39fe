package chat

import "errors"

var (
	// ErrSessionExpired is returned when an event arrives for a chat with no
	// dialogue in progress.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnknownWorkflow is returned for an unregistered workflow id.
	ErrUnknownWorkflow = errors.New("unknown workflow")

	// ErrUnknownStep is returned when a jump target or persisted step is not
	// part of the workflow.
	ErrUnknownStep = errors.New("unknown step")

	// ErrTransitionLimit stops a dialogue that keeps moving without waiting
	// for the operator.
	ErrTransitionLimit = errors.New("too many transitions without waiting for input")

	// ErrConfiguration marks defects in workflow or field configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownAction is returned by the router for unmatched callbacks.
	ErrUnknownAction = errors.New("unknown action")
)

// IsConfigurationError reports whether err is a programming or
// configuration defect rather than a user or downstream error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrUnknownStep) ||
		errors.Is(err, ErrUnknownWorkflow) ||
		errors.Is(err, ErrTransitionLimit)
}
