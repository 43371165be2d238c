package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"sourcery/internal/model"
)

// expectedLines is address, function name, file:line.
const expectedLines = 3

// Parse turns addr2line output into a Location.
//
// Output looks like:
//
//	0x00025ff4
//	png_get_current_pass_number
//	/home/build/libpng-1.6.36/pngtrans.c:861
//
// A file:line field of "??:0" or one ending in "?" means the tool had no
// debug info for the address; that is reported as an Unmapped location,
// not an error.
func Parse(stdout string) (model.Location, error) {
	out := strings.TrimSuffix(stdout, "\n")
	lines := strings.Split(out, "\n")
	if len(lines) != expectedLines {
		return model.Location{}, &ParseError{
			Reason: fmt.Sprintf("expected %d lines of output, got %d", expectedLines, len(lines)),
			Stdout: stdout,
		}
	}

	function := strings.TrimSpace(lines[1])
	spec := strings.TrimSpace(lines[2])

	if strings.HasPrefix(spec, "??") || strings.HasSuffix(spec, "?") {
		return model.Location{RawLineSpec: spec, Unmapped: true}, nil
	}

	file, line, err := ParseLineSpec(spec)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Stdout = stdout
		}
		return model.Location{}, err
	}

	return model.Location{
		Function:    function,
		File:        file,
		Line:        line,
		RawLineSpec: spec,
	}, nil
}

// ParseLineSpec splits "file:line" at the last colon. The line part may
// carry an annotation such as "16 (discriminator 1)"; only the leading
// integer is kept.
func ParseLineSpec(spec string) (string, int, error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 {
		return "", 0, &ParseError{Reason: fmt.Sprintf("no file:line separator in %q", spec)}
	}
	file := spec[:idx]

	tokens := strings.Fields(spec[idx+1:])
	if len(tokens) == 0 {
		return "", 0, &ParseError{Reason: fmt.Sprintf("missing line number in %q", spec)}
	}

	line, err := strconv.Atoi(tokens[0])
	if err != nil {
		return "", 0, &ParseError{
			Reason: fmt.Sprintf("bad line number in %q", spec),
			Err:    errors.Wrap(err, "atoi"),
		}
	}
	if line < 1 {
		return "", 0, &ParseError{Reason: fmt.Sprintf("line number must be positive in %q", spec)}
	}
	return file, line, nil
}
