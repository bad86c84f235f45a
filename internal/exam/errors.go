package exam

import "fmt"

// ConfigurationError reports an invalid test-building request. The test is
// not created; the caller fixes the request and retries.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid test configuration: " + e.Reason
}

// InvalidStateError reports an operation attempted against the wrong session
// state. The caller is expected to redirect the user, not retry.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("operation %q not allowed in state %q", e.Op, e.State)
}

// ErrIndexOutOfRange is returned for question indices outside the session;
// the session state is left untouched.
var ErrIndexOutOfRange = fmt.Errorf("question index out of range")
