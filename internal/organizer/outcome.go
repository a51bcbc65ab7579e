package organizer

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Kind classifies what happened to one file.
type Kind int

const (
	// KindDone means the file was moved or copied, or would have been in a
	// dry run.
	KindDone Kind = iota
	KindCannotRename
	KindIdentical
	KindExists
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindDone:
		return "done"
	case KindCannotRename:
		return "cannot-rename"
	case KindIdentical:
		return "identical"
	case KindExists:
		return "exists"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records the decision for one file and the lines it produced.
type Outcome struct {
	Kind   Kind
	Source string
	Target string
	Err    error

	Bytes    int64
	Attempts int

	Lines []string
}

func (o *Outcome) emit(format string, args ...interface{}) {
	o.Lines = append(o.Lines, fmt.Sprintf(format, args...))
}

// Summary tallies a batch.
type Summary struct {
	Done         int
	CannotRename int
	Identical    int
	Exists       int
	Failed       int
	Bytes        int64
}

// Summarize counts outcomes by kind.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Kind {
		case KindDone:
			s.Done++
			s.Bytes += o.Bytes
		case KindCannotRename:
			s.CannotRename++
		case KindIdentical:
			s.Identical++
		case KindExists:
			s.Exists++
		case KindFailed:
			s.Failed++
		}
	}
	return s
}

func (s Summary) Total() int {
	return s.Done + s.CannotRename + s.Identical + s.Exists + s.Failed
}

// OK reports whether nothing in the batch failed outright.
func (s Summary) OK() bool {
	return s.Failed == 0
}

func (s Summary) String() string {
	parts := []string{fmt.Sprintf("%d processed", s.Done)}
	if s.Identical > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", s.Identical))
	}
	if s.Exists > 0 {
		parts = append(parts, fmt.Sprintf("%d already exist", s.Exists))
	}
	if s.CannotRename > 0 {
		parts = append(parts, fmt.Sprintf("%d not renamable", s.CannotRename))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ", "), humanize.Bytes(uint64(s.Bytes)))
}
