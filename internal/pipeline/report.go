package pipeline

import (
	"fmt"
	"strings"

	"sourcery/internal/model"
)

// GenerateReport renders displays as plain text. Source hits show two lines
// of context around the cursor, or the whole file when verbose.
func GenerateReport(displays []model.Display, verbose bool) string {
	var sb strings.Builder

	for i, d := range displays {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s 0x%x  %s\n", model.StatusIcon(d.Status), d.Offset, d.Module)
		if d.Function != "" {
			fmt.Fprintf(&sb, "  Function: %s\n", d.Function)
		}
		fmt.Fprintf(&sb, "  Line:     %s\n", d.LineInfo)

		switch d.Status {
		case model.StatusSource:
			fmt.Fprintf(&sb, "  File:     %s\n", d.File)
			if verbose {
				writeNumbered(&sb, d.Text, d.Cursor)
			} else if d.HasCursor() {
				writeContext(&sb, model.GetLineContext(d.File, d.Cursor))
			}
		case model.StatusNotFound:
			for _, line := range strings.Split(d.Text, "\n") {
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	return sb.String()
}

func writeContext(sb *strings.Builder, ctx model.LineContext) {
	if ctx.ErrorMsg != "" {
		sb.WriteString("  " + ctx.ErrorMsg + "\n")
		return
	}
	n := ctx.LineNumber
	if ctx.HasBefore2 {
		fmt.Fprintf(sb, "    %5d  %s\n", n-2, ctx.Before2)
	}
	if ctx.HasBefore1 {
		fmt.Fprintf(sb, "    %5d  %s\n", n-1, ctx.Before1)
	}
	fmt.Fprintf(sb, "  > %5d  %s\n", n, ctx.Target)
	if ctx.HasAfter1 {
		fmt.Fprintf(sb, "    %5d  %s\n", n+1, ctx.After1)
	}
	if ctx.HasAfter2 {
		fmt.Fprintf(sb, "    %5d  %s\n", n+2, ctx.After2)
	}
}

func writeNumbered(sb *strings.Builder, text string, cursor int) {
	for i, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		marker := "   "
		if i+1 == cursor {
			marker = "  >"
		}
		fmt.Fprintf(sb, "%s %5d  %s\n", marker, i+1, line)
	}
}
