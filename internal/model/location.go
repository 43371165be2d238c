package model

// Location is the source position addr2line reported for an offset.
type Location struct {
	Function    string // e.g. "png_get_current_pass_number"
	File        string // Build-time path, e.g. "/home/build/libpng/pngtrans.c"
	Line        int    // 1-based, 0 when absent
	RawLineSpec string // The unparsed file:line field, e.g. "pngtrans.c:16 (discriminator 1)"
	Unmapped    bool   // True when the tool had no debug info for the address
}

// HasLine reports whether the location carries a usable line number.
func (l Location) HasLine() bool {
	return !l.Unmapped && l.Line > 0
}
