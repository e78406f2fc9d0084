package service

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the pipeline. Only ErrUnsupportedFormat, ErrInvalidRequest
// and ErrMissingCredential reach callers as errors; the rest are absorbed per
// unit of work and surface through logs, counts and ItemFailure lists.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrExtractionFailure = errors.New("extraction failed")
	ErrRowConversion     = errors.New("row conversion failed")
	ErrMatchLookup       = errors.New("knowledge base lookup failed")
	ErrCommitFailure     = errors.New("knowledge base commit failed")
	ErrMissingCredential = errors.New("missing required credential")
	ErrInvalidRequest    = errors.New("invalid request")
)

// UnsupportedFormatError carries the offending format tag or extension.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: pdf, docx, txt, csv)", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ItemFailure records why one pending item was not committed.
type ItemFailure struct {
	ItemID int64 `json:"item_id"`
	Err    error `json:"-"`
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("item %d: %v", f.ItemID, f.Err)
}

func (f ItemFailure) Unwrap() error {
	return f.Err
}
