package recording

import "errors"

var (
	// ErrNoApplicationID is returned by New when the application identity is
	// empty.
	ErrNoApplicationID = errors.New("recording: application id must not be empty")

	// ErrBadRecordingID is returned by New when an explicit recording
	// identity does not parse as a UUID.
	ErrBadRecordingID = errors.New("recording: recording id must be a UUID")
)
