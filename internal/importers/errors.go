package importers

import "fmt"

// InvalidArchiveError signals that no recognizable export file was found
// in the upload.
type InvalidArchiveError struct {
	Reason string
}

func (e *InvalidArchiveError) Error() string {
	return "invalid archive: " + e.Reason
}

// UnsupportedFormatError signals that an export file was located but its
// structure does not match the expected schema.
type UnsupportedFormatError struct {
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported format: " + e.Reason
}

// PayloadTooLargeError signals that the upload exceeds the configured
// size ceiling.
type PayloadTooLargeError struct {
	LimitBytes int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("upload exceeds the %d MB limit; export only the contacts data", e.LimitBytes/(1024*1024))
}

// CommitValidationError signals a structurally invalid commit payload.
// Per-entry problems never raise this; they are absorbed into the
// skipped count.
type CommitValidationError struct {
	Reason string
}

func (e *CommitValidationError) Error() string {
	return "invalid commit request: " + e.Reason
}
