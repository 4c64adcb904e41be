package cmd

import "errors"

// exitError carries a specific process exit status. A not-found query exits
// with 2 so scripts can tell it apart from a failure.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }

// ExitCode extracts the exit status from an exitError.
// Returns -1 if err is not one.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}
