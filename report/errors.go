package report

import "fmt"

// MergeError is returned when the shard files could not be merged.
// No destination file is written when it is returned.
type MergeError struct {
	Path string
	Err  error
}

func (e *MergeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("merging result files failed: %s", e.Err)
	}
	return fmt.Sprintf("merging result files failed at %s: %s", e.Path, e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a result file can not be read as a well-formed document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse result file %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StructureError is returned when a document flagged as failed lacks the failure details.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("unexpected result structure in %s: %s", e.Path, e.Reason)
}
