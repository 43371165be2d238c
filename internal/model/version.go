package model

// Version is the release version, reported by --version and the update check.
const Version = "0.3.0"

// Repository coordinates for the update check.
const (
	RepoOwner = "sourcery-tools"
	RepoName  = "sourcery"
)
