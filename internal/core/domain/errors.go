package domain

import "errors"

// Domain errors represent business logic failures.
// Infrastructure errors are wrapped with one of these so that callers can
// classify them with errors.Is.
var (
	// ErrInvalidFileType indicates the input does not declare the PDF media type.
	// It is a precondition rejection: no session is created.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrReadFailure indicates the input bytes could not be read.
	ErrReadFailure = errors.New("file read failed")

	// ErrDecodeFailure indicates the codec could not parse the document.
	ErrDecodeFailure = errors.New("document decode failed")

	// ErrEncodeFailure indicates the codec could not serialise the document.
	ErrEncodeFailure = errors.New("document encode failed")

	// ErrWriteFailure indicates the exported document could not be written out.
	ErrWriteFailure = errors.New("output write failed")

	// Session Errors.

	// ErrNoSession indicates no document is loaded.
	ErrNoSession = errors.New("no document loaded")

	// ErrSessionDiscarded indicates the session was removed or replaced.
	ErrSessionDiscarded = errors.New("session discarded")

	// ErrExportInProgress indicates an export is already running for the session.
	ErrExportInProgress = errors.New("export in progress")

	// ErrPageOutOfRange indicates a page index outside [1, numPages].
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrInvalidRotation indicates an angle that is not a multiple of 90.
	ErrInvalidRotation = errors.New("rotation must be a multiple of 90 degrees")
)

// FailureKind classifies an error for user-facing reporting.
type FailureKind string

// Failure kinds.
const (
	FailureNone          FailureKind = ""
	FailureInvalidType   FailureKind = "invalid_file_type"
	FailureRead          FailureKind = "read_failure"
	FailureDecode        FailureKind = "decode_failure"
	FailureEncode        FailureKind = "encode_failure"
	FailureWrite         FailureKind = "write_failure"
	FailureBusy          FailureKind = "export_in_progress"
	FailureStale         FailureKind = "session_discarded"
	FailureInvalidAction FailureKind = "invalid_action"
	FailureUnknown       FailureKind = "unknown"
)

// ClassifyFailure returns the kind of err. A nil error is FailureNone.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrInvalidFileType):
		return FailureInvalidType
	case errors.Is(err, ErrReadFailure):
		return FailureRead
	case errors.Is(err, ErrDecodeFailure):
		return FailureDecode
	case errors.Is(err, ErrEncodeFailure):
		return FailureEncode
	case errors.Is(err, ErrWriteFailure):
		return FailureWrite
	case errors.Is(err, ErrExportInProgress):
		return FailureBusy
	case errors.Is(err, ErrSessionDiscarded):
		return FailureStale
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrPageOutOfRange), errors.Is(err, ErrInvalidRotation):
		return FailureInvalidAction
	default:
		return FailureUnknown
	}
}

// Message returns a short user-facing description of the failure kind.
func (k FailureKind) Message() string {
	switch k {
	case FailureNone:
		return ""
	case FailureInvalidType:
		return "Not a PDF file"
	case FailureRead:
		return "Could not read the file, please try again"
	case FailureDecode:
		return "Could not open the PDF, it may be corrupt or unsupported"
	case FailureEncode:
		return "Could not produce the rotated PDF, please try again"
	case FailureWrite:
		return "Could not save the rotated PDF"
	case FailureBusy:
		return "An export is already running"
	case FailureStale:
		return "The document was closed"
	case FailureInvalidAction:
		return "Nothing to do for this document"
	default:
		return "Something went wrong"
	}
}

// Silent reports whether failures of this kind are not shown to the user.
// Results of a discarded session are dropped without a message.
func (k FailureKind) Silent() bool {
	return k == FailureNone || k == FailureStale
}
