package stylish

import "fmt"

// MalformedExpressionError reports a marker expression whose argument
// text cannot be decoded as JSON, or whose rule carries an unusable
// selector. Where identifies the offending selector or element tag.
type MalformedExpressionError struct {
	Where string
	Err   error
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed %s expression at %q: %v", Marker, e.Where, e.Err)
}

func (e *MalformedExpressionError) Unwrap() error {
	return e.Err
}

// TriggerError wraps a failure raised from within a trigger invocation.
// Where identifies the style provider being processed when the trigger
// failed.
type TriggerError struct {
	Where string
	Err   error
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("trigger failed at %q: %v", e.Where, e.Err)
}

func (e *TriggerError) Unwrap() error {
	return e.Err
}
