package domain

import "errors"

// Failure taxonomy. Adapters wrap these with fmt.Errorf("...: %w") so
// callers can branch with errors.Is.
var (
	// ErrAcquisition means the source resource could not be read.
	ErrAcquisition = errors.New("acquisition failure")
	// ErrClassification covers network, model and response-parse failures.
	ErrClassification = errors.New("classification failure")
	// ErrHandler means one action handler failed to perform its side effect.
	ErrHandler = errors.New("handler failure")
	// ErrPersistenceCorruption means stored history could not be decoded.
	ErrPersistenceCorruption = errors.New("persistence corruption")
	// ErrNoSource is returned by handlers that need a source resource.
	ErrNoSource = errors.New("no source resource")
)
