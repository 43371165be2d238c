package resolver

import (
	"fmt"
	"strings"
)

// ProcessError means the tool could not be launched or exited abnormally.
type ProcessError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ParseError means the tool ran but its output was malformed. The raw
// output is kept for diagnostics.
type ParseError struct {
	Reason string
	Stdout string
	Stderr string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed addr2line output: %s: %v", e.Reason, e.Err)
	}
	return "malformed addr2line output: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
