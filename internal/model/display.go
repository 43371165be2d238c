package model

// Status classifies the outcome of one navigation event.
type Status string

const (
	StatusSource   Status = "source"    // Source text is available
	StatusUnmapped Status = "unmapped"  // No debug info for the offset
	StatusError    Status = "error"     // Tool or parse failure
	StatusNotFound Status = "not_found" // Resolved, but no local file
)

// Display is what a front-end renders after a navigation event.
type Display struct {
	Status   Status `json:"status"`
	Module   string `json:"module"`
	Offset   uint64 `json:"offset"`
	Function string `json:"function"`
	LineInfo string `json:"line_info"` // Header text, e.g. "/src/foo.c:42"
	File     string `json:"file"`      // Effective path the text was read from
	Text     string `json:"text"`
	Cursor   int    `json:"cursor"` // 1-based line to highlight, 0 for none
}

// HasCursor reports whether a line should be highlighted.
func (d Display) HasCursor() bool {
	return d.Cursor > 0
}
