// Package organizer applies inferred names to the filesystem, one file at a
// time, and reports every decision to the outcome log.
package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Nomadcxx/fixnums/internal/logging"
	"github.com/Nomadcxx/fixnums/internal/naming"
	"github.com/Nomadcxx/fixnums/internal/transfer"
)

type Organizer struct {
	fs         afero.Fs
	transferer transfer.Transferer
	sink       io.Writer
	logger     *logging.Logger
	opts       transfer.TransferOptions

	copy      bool
	dryRun    bool
	overwrite bool
	outputDir string
}

// NewOrganizer builds an Organizer. Without options it moves files on the
// real filesystem, relative to the working directory, and logs to stdout.
func NewOrganizer(options ...func(*Organizer)) *Organizer {
	org := &Organizer{
		fs:     afero.NewOsFs(),
		sink:   os.Stdout,
		logger: logging.Nop(),
		opts:   transfer.DefaultOptions(),
	}

	for _, opt := range options {
		opt(org)
	}

	if org.transferer == nil {
		org.transferer = transfer.New(org.fs, org.dryRun)
	}

	return org
}

// WithCopy keeps the source and copies instead of moving
func WithCopy(keepSource bool) func(*Organizer) {
	return func(o *Organizer) {
		o.copy = keepSource
	}
}

// WithDryRun sets dry run mode
func WithDryRun(dryRun bool) func(*Organizer) {
	return func(o *Organizer) {
		o.dryRun = dryRun
	}
}

// WithOverwrite allows replacing files that already exist at the destination
func WithOverwrite(overwrite bool) func(*Organizer) {
	return func(o *Organizer) {
		o.overwrite = overwrite
	}
}

// WithOutputDir sets the directory new names are resolved against
func WithOutputDir(dir string) func(*Organizer) {
	return func(o *Organizer) {
		o.outputDir = dir
	}
}

func WithFs(fs afero.Fs) func(*Organizer) {
	return func(o *Organizer) {
		o.fs = fs
	}
}

// WithTransferer replaces the transferer chosen from the dry run setting
func WithTransferer(t transfer.Transferer) func(*Organizer) {
	return func(o *Organizer) {
		o.transferer = t
	}
}

func WithTransferOptions(opts transfer.TransferOptions) func(*Organizer) {
	return func(o *Organizer) {
		o.opts = opts
	}
}

// WithSink sets where outcome lines are written
func WithSink(w io.Writer) func(*Organizer) {
	return func(o *Organizer) {
		o.sink = w
	}
}

func WithLogger(l *logging.Logger) func(*Organizer) {
	return func(o *Organizer) {
		o.logger = l
	}
}

// Action is the verb used in outcome lines, Move or Copy.
func (o *Organizer) Action() string {
	if o.copy {
		return "Copy"
	}
	return "Move"
}

// Destination resolves a new name against the output directory.
func (o *Organizer) Destination(newName string) string {
	return filepath.Join(o.outputDir, filepath.Dir(newName), filepath.Base(newName))
}

// Process handles results strictly in order. A failing file never stops the
// rest of the batch.
func (o *Organizer) Process(results []*naming.Result) []Outcome {
	outcomes := make([]Outcome, 0, len(results))
	for _, r := range results {
		outcomes = append(outcomes, o.ProcessOne(r))
	}
	return outcomes
}

// ProcessOne applies a single result and writes its lines, followed by a
// blank separator line, to the sink.
func (o *Organizer) ProcessOne(r *naming.Result) Outcome {
	out := o.apply(r)
	for _, line := range out.Lines {
		fmt.Fprintln(o.sink, line)
	}
	fmt.Fprintln(o.sink)
	return out
}

func (o *Organizer) apply(r *naming.Result) Outcome {
	out := Outcome{Source: r.OriginalPath}

	if !r.OK {
		out.Kind = KindCannotRename
		out.Err = r.Err
		out.emit("%s - Cannot Be renamed", r.OriginalPath)
		o.logger.Debug("organizer", "no new name", logging.F("file", r.OriginalPath), logging.F("reason", r.Err))
		return out
	}

	dst := o.Destination(r.NewName)
	out.Target = dst
	dstDir := filepath.Dir(dst)

	if !o.dryRun {
		exists, err := afero.DirExists(o.fs, dstDir)
		if err == nil && !exists {
			if err := o.fs.MkdirAll(dstDir, o.dirMode()); err != nil {
				out.Kind = KindFailed
				out.Err = err
				out.emit("Cannot create directory %s | Failed", dstDir)
				o.logger.Debug("organizer", "mkdir failed", logging.F("dir", dstDir), logging.F("error", err))
				return out
			}
			out.emit("Created Directory Structure - %s", dstDir)
		}
	}

	if samePath(dst, r.OriginalPath) {
		out.Kind = KindIdentical
		out.emit("%s not changed - Identical Names", r.OriginalPath)
		return out
	}

	action := o.Action()

	if info, err := o.fs.Stat(dst); err == nil && info.Mode().IsRegular() && !o.overwrite {
		out.Kind = KindExists
		out.emit("Cannot %s - %s ==> %s", action, r.OriginalPath, dst)
		out.emit("A file already exists at this path. Add -D to force an overwrite")
		return out
	}

	out.emit("Attempting to %s %s => %s", action, r.OriginalPath, dst)

	var (
		result *transfer.TransferResult
		err    error
	)
	if o.copy {
		result, err = o.transferer.Copy(r.OriginalPath, dst, o.opts)
	} else {
		result, err = o.transferer.Move(r.OriginalPath, dst, o.opts)
	}

	if err != nil {
		out.Kind = KindFailed
		out.Err = err
		out.emit("%s %s => %s | Failed", action, r.OriginalPath, dst)
		o.logger.Debug("organizer", "transfer failed",
			logging.F("src", r.OriginalPath),
			logging.F("dst", dst),
			logging.F("transferer", o.transferer.Name()),
			logging.F("error", err))
		return out
	}

	out.Kind = KindDone
	out.Bytes = result.BytesTotal
	out.Attempts = result.Attempts
	out.emit("%s %s => %s | Success", action, r.OriginalPath, dst)
	return out
}

func (o *Organizer) dirMode() os.FileMode {
	if o.opts.DirMode != 0 {
		return o.opts.DirMode
	}
	return 0755
}

// samePath compares absolute forms of a and b. If either cannot be made
// absolute the cleaned paths are compared.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
