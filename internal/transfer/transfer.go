// Package transfer moves and copies media files between paths of an afero
// filesystem. Transient failures are retried; a move that cannot be done as a
// rename falls back to copy followed by removal of the source.
package transfer

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/afero"
)

// Common errors returned by transfer operations
var (
	// ErrSourceNotFound is returned when the source file doesn't exist
	ErrSourceNotFound = errors.New("source file not found")

	// ErrDestinationNotWritable is returned when the destination directory
	// cannot be created or the destination file cannot be opened
	ErrDestinationNotWritable = errors.New("destination not writable")

	// ErrTransferFailed is returned when a transfer fails for unspecified reasons
	ErrTransferFailed = errors.New("transfer failed")

	// ErrRetryExhausted is returned when all retry attempts have been exhausted
	ErrRetryExhausted = errors.New("all retry attempts exhausted")
)

// TransferOptions configures the behavior of a file transfer operation.
type TransferOptions struct {
	// RetryAttempts specifies how many times to retry on transient failures.
	// A value of 0 means no retries.
	RetryAttempts int

	// RetryDelay specifies how long to wait between retry attempts.
	RetryDelay time.Duration

	// DirMode is used for destination directories that have to be created.
	DirMode os.FileMode
}

// DefaultOptions returns sensible default transfer options.
func DefaultOptions() TransferOptions {
	return TransferOptions{
		RetryAttempts: 2,
		RetryDelay:    500 * time.Millisecond,
		DirMode:       0755,
	}
}

// TransferResult contains details about a completed transfer operation.
type TransferResult struct {
	Success bool

	// BytesTotal is the size of the source file
	BytesTotal int64

	// BytesCopied is the number of bytes written. A rename copies nothing.
	BytesCopied int64

	Duration time.Duration

	// Renamed is set when a move completed as a single rename
	Renamed bool

	// SourceRemoved indicates whether the source file is gone (for Move operations)
	SourceRemoved bool

	// Attempts is the number of attempts made (including retries)
	Attempts int

	Error error
}

// Transferer is the interface for file transfer implementations.
type Transferer interface {
	// Move transfers a file from src to dst, then removes the source.
	// Returns ErrSourceNotFound if source doesn't exist.
	Move(src, dst string, opts TransferOptions) (*TransferResult, error)

	// Copy transfers a file from src to dst without removing the source.
	Copy(src, dst string, opts TransferOptions) (*TransferResult, error)

	// Name returns a human-readable name for this transferer implementation.
	Name() string
}

// New returns the transferer for a run. Dry runs get a NopTransferer that
// only inspects the source.
func New(fs afero.Fs, dryRun bool) Transferer {
	if dryRun {
		return NewNopTransferer(fs)
	}
	return NewNativeTransferer(fs, 0)
}
