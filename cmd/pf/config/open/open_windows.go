//go:build windows

package open

import (
	"os"

	winacl "github.com/hectane/go-acl"
)

// NewSafeFile creates an empty file with owner-only permission.
// A file already at filepath is truncated, so stale secrets do not
// outlive a rewrite.
func NewSafeFile(filepath string) (*os.File, error) {
	// WINDOWS: permission (acl) cannot be set at creation time.
	// Create first, chmod, then truncate.
	f, err := os.OpenFile(filepath, os.O_TRUNC|os.O_CREATE|os.O_RDWR, os.FileMode(0600))
	if err != nil {
		return nil, err
	}

	if err := winacl.Chmod(filepath, os.FileMode(0600)); err != nil {
		return nil, err
	}

	if err := f.Truncate(0); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}

	return f, nil
}
