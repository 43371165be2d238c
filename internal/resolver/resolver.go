// Package resolver maps an offset inside a module to a source location by
// running an external addr2line-compatible tool.
package resolver

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"sourcery/internal/model"
)

// Resolver runs one tool process per lookup. Nothing is cached.
type Resolver struct {
	Tool   string
	logger *logrus.Entry
}

// New returns a Resolver for the given tool, DefaultTool when empty.
func New(tool string) *Resolver {
	if tool == "" {
		tool = DefaultTool
	}
	return &Resolver{
		Tool:   tool,
		logger: logrus.WithField("component", "resolver"),
	}
}

// Resolve returns the source location of offset within executable.
//
// Errors are *ProcessError or *ParseError. An address without debug info
// is not an error: the returned Location has Unmapped set.
func (r *Resolver) Resolve(executable string, offset uint64) (model.Location, error) {
	stdout, stderr, err := RunTool(r.Tool, Args(executable, offset)...)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"executable": executable,
			"offset":     offset,
			"stderr":     stderr,
		}).WithError(err).Warn("address resolution failed")
		return model.Location{}, &ProcessError{Tool: r.Tool, Stderr: stderr, Err: err}
	}

	loc, err := Parse(stdout)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Stderr = stderr
		}
		r.logger.WithFields(logrus.Fields{
			"stdout": stdout,
			"stderr": stderr,
		}).WithError(err).Warn("could not parse tool output")
		return model.Location{}, err
	}

	r.logger.WithFields(logrus.Fields{
		"offset":   offset,
		"function": loc.Function,
		"line":     loc.RawLineSpec,
	}).Debug("resolved")
	return loc, nil
}
