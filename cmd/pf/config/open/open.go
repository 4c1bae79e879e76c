//go:build !windows

// Package open creates files readable only by the current user, for
// the access tokens and session state pf keeps on disk.
package open

import "os"

// NewSafeFile creates an empty file with owner-only permission.
// A file already at filepath is truncated, so stale secrets do not
// outlive a rewrite.
func NewSafeFile(filepath string) (*os.File, error) {
	f, err := os.OpenFile(filepath, os.O_TRUNC|os.O_CREATE|os.O_RDWR, os.FileMode(0600))
	if err != nil {
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
