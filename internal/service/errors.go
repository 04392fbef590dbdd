package service

import (
	"errors"
	"fmt"

	"marblefiles/internal/access"
)

var (
	// ErrFileIDRequired and friends mark malformed caller input.
	ErrFileIDRequired   = errors.New("file id is required")
	ErrFolderIDRequired = errors.New("folder id is required")
	ErrReaderNil        = errors.New("reader is nil")

	// ErrFileNotFound covers an absent row, a tenant-mismatched row, and a
	// missing blob behind an existing row; callers cannot tell them apart.
	ErrFileNotFound   = errors.New("file not found")
	ErrFolderNotFound = errors.New("folder not found")

	// ErrMissingStorageKey marks a ready file record whose storage reference
	// is empty. This is an internal inconsistency, never a client error.
	ErrMissingStorageKey = errors.New("file is missing its storage reference")
)

// AccessDeniedError reports that the resource exists but the identity lacks
// rights to it. It carries the engine's machine-readable reason tag and never
// details about the actual owner.
type AccessDeniedError struct {
	Reason access.Reason
}

func (e *AccessDeniedError) Error() string {
	switch e.Reason {
	case access.ReasonOwner:
		return "only the folder owner can add files to it"
	case access.ReasonAccess:
		return "you do not have access to this file"
	}
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// IsAccessDenied reports whether err is an AccessDeniedError and returns it.
func IsAccessDenied(err error) (*AccessDeniedError, bool) {
	var denied *AccessDeniedError
	if errors.As(err, &denied) {
		return denied, true
	}
	return nil, false
}
