package model

// Package model contains domain models/data structures.
// Pure structs shared across layers; no persistence tags and no business logic here.

// Visibility governs read exposure of a folder or file inside its tenant.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// FileStatus tracks the upload lifecycle of a file record.
type FileStatus string

const (
	FileStatusPending FileStatus = "pending"
	FileStatusReady   FileStatus = "ready"
)
