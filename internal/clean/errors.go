package clean

import (
	"fmt"

	"github.com/findable-ai/findable-score/internal/metadata"
	"github.com/findable-ai/findable-score/pkg/failure"
)

type CleanErrorCause string

const (
	ErrCauseParseFailed  CleanErrorCause = "parse failed"
	ErrCauseNoMainContent CleanErrorCause = "no main content"
)

// CleanError is always recoverable: per the run-level error policy a bad
// page is skipped, never fatal.
type CleanError struct {
	Message string
	Cause   CleanErrorCause
}

func (e *CleanError) Error() string {
	return fmt.Sprintf("clean error: %s: %s", e.Cause, e.Message)
}

func (e *CleanError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func mapCleanErrorToMetadataCause(cause CleanErrorCause) metadata.ErrorCause {
	switch cause {
	case ErrCauseParseFailed:
		return metadata.CauseContentInvalid
	case ErrCauseNoMainContent:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
