package index

import "fmt"

// ArgumentError reports a host-boundary argument mistake: a missing or
// wrong-typed argument to one of the dispatched commands. It carries
// no filesystem state change with it.
type ArgumentError struct {
	Command string
	Index   int
	Reason  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("fileindexer: %s: argument %d: %s", e.Command, e.Index, e.Reason)
}

// NewArgumentError constructs an ArgumentError for command's argIndex
// argument, with reason explaining why it was rejected.
func NewArgumentError(command string, argIndex int, reason string) *ArgumentError {
	return &ArgumentError{Command: command, Index: argIndex, Reason: reason}
}
