package uth

import "github.com/kolkov/uthsync/internal/uth/sched"

// Version information for the uthsync runtime.
const (
	// Version is the current version of the synchronization runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the synchronization library.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Scheduler names the active scheduling policy.
	Scheduler string
}

// GetInfo returns information about the synchronization runtime.
//
// Example:
//
//	info := uth.GetInfo()
//	fmt.Printf("uthsync %s (%s)\n", info.Version, info.Scheduler)
func GetInfo() Info {
	scheduler := "builtin goroutine-backed"
	if sched.Registered() {
		scheduler = "custom 2LS"
	}
	return Info{
		Version:   Version,
		Scheduler: scheduler,
	}
}
