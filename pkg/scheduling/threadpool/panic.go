package threadpool

import (
	"fmt"
	"runtime/debug"
)

// PanicError is the failure stored in a future when its task panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func newPanicError(recovered interface{}) *PanicError {
	return &PanicError{Value: recovered, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
