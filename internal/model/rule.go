package model

// SubstitutionRule rewrites a build-time path prefix to a local one.
type SubstitutionRule struct {
	Original string `json:"original" yaml:"original"` // Prefix as recorded in the debug info
	Local    string `json:"local" yaml:"local"`       // Prefix on this machine
}
