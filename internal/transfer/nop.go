package transfer

import (
	"fmt"

	"github.com/spf13/afero"
)

// NopTransferer reports what a transfer would do without touching the
// filesystem. It backs dry runs.
type NopTransferer struct {
	fs afero.Fs
}

func NewNopTransferer(fs afero.Fs) *NopTransferer {
	return &NopTransferer{fs: fs}
}

func (n *NopTransferer) Name() string {
	return "dry-run"
}

func (n *NopTransferer) Move(src, dst string, opts TransferOptions) (*TransferResult, error) {
	return n.stat(src)
}

func (n *NopTransferer) Copy(src, dst string, opts TransferOptions) (*TransferResult, error) {
	return n.stat(src)
}

func (n *NopTransferer) stat(src string) (*TransferResult, error) {
	info, err := n.fs.Stat(src)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSourceNotFound, err)
		return &TransferResult{Error: err}, err
	}
	return &TransferResult{Success: true, BytesTotal: info.Size()}, nil
}
