package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/afero"
)

const defaultBufferSize = 4 * 1024 * 1024

type NativeTransferer struct {
	fs         afero.Fs
	bufferSize int
}

func NewNativeTransferer(fs afero.Fs, bufferSize int) *NativeTransferer {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &NativeTransferer{fs: fs, bufferSize: bufferSize}
}

func (n *NativeTransferer) Name() string {
	return "native"
}

// Move renames src to dst. When the rename fails, typically across devices,
// the file is copied and the source removed afterwards.
func (n *NativeTransferer) Move(src, dst string, opts TransferOptions) (*TransferResult, error) {
	startTime := time.Now()

	srcInfo, err := n.prepare(src, dst, opts)
	if err != nil {
		return &TransferResult{Error: err}, err
	}

	if err := n.fs.Rename(src, dst); err == nil {
		return &TransferResult{
			Success:       true,
			BytesTotal:    srcInfo.Size(),
			Duration:      time.Since(startTime),
			Renamed:       true,
			SourceRemoved: true,
			Attempts:      1,
		}, nil
	}

	result, err := n.copyWithRetry(src, dst, srcInfo, opts)
	if err != nil {
		result.Duration = time.Since(startTime)
		return result, err
	}

	if err := n.fs.Remove(src); err != nil {
		// The data is safe at dst; report the leftover source.
		result.SourceRemoved = false
		result.Duration = time.Since(startTime)
		return result, nil
	}

	result.SourceRemoved = true
	result.Duration = time.Since(startTime)
	return result, nil
}

func (n *NativeTransferer) Copy(src, dst string, opts TransferOptions) (*TransferResult, error) {
	startTime := time.Now()

	srcInfo, err := n.prepare(src, dst, opts)
	if err != nil {
		return &TransferResult{Error: err}, err
	}

	result, err := n.copyWithRetry(src, dst, srcInfo, opts)
	result.Duration = time.Since(startTime)
	return result, err
}

// prepare checks the source and makes sure the destination directory exists.
func (n *NativeTransferer) prepare(src, dst string, opts TransferOptions) (os.FileInfo, error) {
	srcInfo, err := n.fs.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	if !srcInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrSourceNotFound, src)
	}

	dirMode := opts.DirMode
	if dirMode == 0 {
		dirMode = 0755
	}
	if err := n.fs.MkdirAll(filepath.Dir(dst), dirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}

	return srcInfo, nil
}

func (n *NativeTransferer) copyWithRetry(src, dst string, srcInfo os.FileInfo, opts TransferOptions) (*TransferResult, error) {
	result := &TransferResult{BytesTotal: srcInfo.Size()}

	maxAttempts := opts.RetryAttempts + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	err := retry.Do(
		func() error {
			result.Attempts++
			copied, opened, err := n.copyFile(src, dst, srcInfo.Mode().Perm())
			result.BytesCopied = copied
			if err != nil && opened {
				// Only a destination this attempt truncated is removed; a file
				// that could not be opened is left as it was.
				_ = n.fs.Remove(dst)
			}
			return err
		},
		retry.Attempts(uint(maxAttempts)),
		retry.Delay(opts.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrDestinationNotWritable)
		}),
	)
	if err != nil {
		if result.Attempts > 1 {
			result.Error = fmt.Errorf("%w: %w", ErrRetryExhausted, err)
		} else {
			result.Error = fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		return result, result.Error
	}

	result.Success = true
	return result, nil
}

// copyFile copies src over dst. opened reports whether dst was opened for
// writing, and therefore possibly truncated, before any error.
func (n *NativeTransferer) copyFile(src, dst string, mode os.FileMode) (copied int64, opened bool, err error) {
	srcFile, err := n.fs.Open(src)
	if err != nil {
		return 0, false, fmt.Errorf("failed to open source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := n.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}

	buf := make([]byte, n.bufferSize)
	copied, err = io.CopyBuffer(dstFile, srcFile, buf)
	if err != nil {
		dstFile.Close()
		return copied, true, fmt.Errorf("copy error: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		dstFile.Close()
		return copied, true, fmt.Errorf("sync error: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		return copied, true, fmt.Errorf("close error: %w", err)
	}

	return copied, true, nil
}
