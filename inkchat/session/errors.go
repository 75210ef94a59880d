package session

import "errors"

// Error taxonomy for one command invocation. Malformed metadata blocks and
// malformed turn blocks are not errors; both fall back silently (metadata
// treated as absent, unrecognized blocks excluded from the decoded history).
var (
	// ErrMissingPromptDelimiter aborts the command with a notice when no
	// selection is active and no delimiter occurs outside fenced code.
	ErrMissingPromptDelimiter = errors.New("no prompt delimiter found before the cursor")

	// ErrNoActiveDocument is fatal for the invocation: there is no document
	// context to resolve metadata from.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrRequestFailed wraps provider failures. It is reported via notice
	// and never rolls back mutations already applied.
	ErrRequestFailed = errors.New("completion request failed")
)
