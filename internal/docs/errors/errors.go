package errors

// Package errors provides sentinel errors for document discovery operations.

import "errors"

var (
	// ErrDocsDirWalkFailed indicates filesystem traversal of the entry directory failed.
	ErrDocsDirWalkFailed = errors.New("entry directory walk failed")

	// ErrFileReadFailed indicates reading content from a discovered document failed.
	ErrFileReadFailed = errors.New("document read failed")

	// ErrNotDocument indicates a path is not a renderable document: wrong extension, hidden or editor temp file.
	ErrNotDocument = errors.New("not a document")

	// ErrOutsideEntry indicates a path does not resolve under the entry directory.
	ErrOutsideEntry = errors.New("path outside entry directory")

	// ErrUnknownDocument indicates a content change for a document no asset was rendered from.
	ErrUnknownDocument = errors.New("document not in collection")
)
