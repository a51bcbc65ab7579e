package naming

import "errors"

// Field is a value that a template can reference.
type Field string

const (
	FieldShowName    Field = "show_name"
	FieldEpisodeName Field = "episode_name"
	FieldSeason      Field = "season"
	FieldEpisode     Field = "episode"
	FieldSep         Field = "sep"
)

// Fields lists every field a template may reference.
var Fields = []Field{FieldShowName, FieldEpisodeName, FieldSeason, FieldEpisode, FieldSep}

// IsValid reports whether f is one of the known fields.
func (f Field) IsValid() bool {
	switch f {
	case FieldShowName, FieldEpisodeName, FieldSeason, FieldEpisode, FieldSep:
		return true
	}
	return false
}

// Failure outcomes carried in Result.Err.
var (
	// ErrAmbiguousMatch means the season/episode pattern occurs more than once.
	// It fails the file regardless of strict mode.
	ErrAmbiguousMatch = errors.New("filename contains more than one season/episode identifier")

	// ErrMissingField means strict mode found a referenced field without a value.
	ErrMissingField = errors.New("template field could not be determined")

	// ErrUnparseableNumber means a matched season or episode is not a number.
	ErrUnparseableNumber = errors.New("season/episode is not a number")

	// ErrInvalidTemplate is returned for templates with unknown placeholders
	// or unbalanced braces.
	ErrInvalidTemplate = errors.New("invalid template")
)

// Result is the outcome of inferring a new name for one file. An empty string
// stands for an absent value. A Result is not modified after Infer returns.
type Result struct {
	OriginalPath string
	Directory    string
	BaseName     string
	Extension    string

	Season      string
	Episode     string
	ShowName    string
	EpisodeName string

	// Pattern names the season/episode rule that matched, if any.
	Pattern string

	// NewName is relative to the output directory and may contain path
	// separators. Set only when OK is true.
	NewName string
	OK      bool

	// Err says why no new name was produced when OK is false.
	Err error
}

// Value returns the resolved value of a template field.
func (r *Result) Value(f Field) string {
	switch f {
	case FieldShowName:
		return r.ShowName
	case FieldEpisodeName:
		return r.EpisodeName
	case FieldSeason:
		return r.Season
	case FieldEpisode:
		return r.Episode
	case FieldSep:
		return separator
	}
	return ""
}

// Matched reports whether a season/episode pattern was found.
func (r *Result) Matched() bool {
	return r.Pattern != ""
}

func (r *Result) fail(err error) *Result {
	r.OK = false
	r.NewName = ""
	r.Err = err
	return r
}
