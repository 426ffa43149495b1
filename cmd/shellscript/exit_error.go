package main

import "fmt"

// Exit codes.
const (
	exitFatal    = 1 // a source could not be processed
	exitRejected = 2 // strict mode found unknown options or rejected values
)

// ExitError signals a non-zero exit code without calling os.Exit in RunE.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
