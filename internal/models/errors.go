package models

import "errors"

var (
	// ErrAlreadyCommitted is returned by the knowledge store when a pending
	// record already produced a knowledge base entry.
	ErrAlreadyCommitted = errors.New("pending item already committed to knowledge base")
	ErrNotFound         = errors.New("not found")
)
