package resolver

import (
	"bytes"
	"fmt"
	"os/exec"
)

// DefaultTool is the address-to-line resolver looked up on PATH.
const DefaultTool = "addr2line"

// Args builds the tool invocation for one offset:
//
//	-e <executable> -a 0x<offset> -f
//
// -a echoes the address back as the first output line and -f adds the
// function name, so a successful run prints exactly three lines.
func Args(executable string, offset uint64) []string {
	return []string{"-e", executable, "-a", fmt.Sprintf("0x%x", offset), "-f"}
}

// RunTool executes the tool and waits for it to exit, returning everything
// it printed. There is no timeout: a hung tool blocks the caller.
func RunTool(tool string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(tool, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	// Run covers both failure to launch and a non-zero exit status.
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}
