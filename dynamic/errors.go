package dynamic

import (
	"errors"
	"fmt"
)

// Stage names the step of dynamic rendering that failed.
type Stage string

const (
	StageCompile  Stage = "compile"
	StageEvaluate Stage = "evaluate"
	StageTimeout  Stage = "timeout"
	StageOutput   Stage = "output"
)

var (
	// ErrEmptySource is returned for instances without component code.
	ErrEmptySource = errors.New("dynamic: component code is empty")
	// ErrNoRenderFunction is returned when the source defines neither
	// render nor Component and does not evaluate to a function.
	ErrNoRenderFunction = errors.New("dynamic: source does not define a render function")
	// ErrTimeout is returned when evaluation exceeds the configured budget.
	ErrTimeout = errors.New("dynamic: evaluation timed out")
	// ErrUnsupportedOutput is returned when render returns something other
	// than a string, number, element or list of those.
	ErrUnsupportedOutput = errors.New("dynamic: unsupported render output")
	// ErrOutputTooLarge is returned when the rendered markup exceeds the limit.
	ErrOutputTooLarge = errors.New("dynamic: rendered output too large")
)

// EvaluationError carries enough context to reproduce a failed dynamic
// render: the instance, the code fingerprint and the failing stage.
type EvaluationError struct {
	Stage       Stage
	InstanceID  string
	Fingerprint string
	Err         error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("dynamic: %s failed instance=%s fingerprint=%s: %v", e.Stage, describeInstance(e.InstanceID), ShortFingerprint(e.Fingerprint), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeInstance(id string) string {
	if id == "" {
		return "<none>"
	}
	return id
}

func wrapEvaluationError(stage Stage, instanceID, fingerprint string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Stage == "" {
			evalErr.Stage = stage
		}
		if evalErr.InstanceID == "" {
			evalErr.InstanceID = instanceID
		}
		if evalErr.Fingerprint == "" {
			evalErr.Fingerprint = fingerprint
		}
		return evalErr
	}

	return &EvaluationError{
		Stage:       stage,
		InstanceID:  instanceID,
		Fingerprint: fingerprint,
		Err:         err,
	}
}
