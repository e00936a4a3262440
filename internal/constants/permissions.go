package constants

import "os"

// Directory permission constants.
const (
	// DirPermStandard is the standard directory permission (owner rwx, group r-x).
	DirPermStandard os.FileMode = 0750
)

// File permission constants.
const (
	// FilePermReadWrite is the permission for files created by copy and scrub
	// (owner rw, group r, other r).
	FilePermReadWrite os.FileMode = 0644
)
