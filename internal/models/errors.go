package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when operating on an id that no longer exists
	// in the products collection.
	ErrNotFound = errors.New("product not found")

	// ErrMalformedURL is returned when a media URL does not carry the
	// expected "/upload/" path marker.
	ErrMalformedURL = errors.New("invalid media URL structure")
)

// ValidationError blocks a submit before any store or media call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// UploadError aborts a whole submit; it names the file whose upload failed
// so nothing referencing a partial image set is ever persisted.
type UploadError struct {
	File string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for file %q: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
