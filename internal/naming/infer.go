// Package naming infers season, episode, show and episode names from messy
// media filenames and builds normalized names from a template.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/fixnums/internal/config"
)

var separator = string(filepath.Separator)

// Inferencer turns raw paths into Results for one configuration. The template
// is compiled once in NewInferencer.
type Inferencer struct {
	cfg      config.Config
	template *Template
}

// NewInferencer compiles cfg.Template. A template error is a configuration
// error and is returned before any file is looked at.
func NewInferencer(cfg config.Config) (*Inferencer, error) {
	tmpl, err := CompileTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}
	return &Inferencer{cfg: cfg, template: tmpl}, nil
}

// Template returns the compiled template.
func (i *Inferencer) Template() *Template {
	return i.template
}

// Infer builds a Result for rawPath with cfg. An invalid template yields a
// failed Result carrying ErrInvalidTemplate.
func Infer(rawPath string, cfg config.Config) *Result {
	inf, err := NewInferencer(cfg)
	if err != nil {
		return splitPath(rawPath).fail(err)
	}
	return inf.Infer(rawPath)
}

// Infer determines the fields of rawPath and synthesizes its new name.
func (i *Inferencer) Infer(rawPath string) *Result {
	r := splitPath(rawPath)

	m, err := matchEpisode(r.BaseName)
	if err != nil {
		r.Pattern = m.rule.Name
		return r.fail(fmt.Errorf("%w (%s)", err, r.BaseName))
	}

	var rawShow, rawEpisode string
	if m != nil {
		r.Pattern = m.rule.Name

		if r.Season, err = padNumber(m.season, i.cfg.SeasonPad); err != nil {
			return r.fail(err)
		}
		if r.Episode, err = padNumber(m.episode, i.cfg.EpisodePad); err != nil {
			return r.fail(err)
		}

		rawShow = strings.TrimSpace(m.before)
		rawEpisode = strings.TrimSpace(m.after)
	}

	if i.cfg.Season != "" {
		if r.Season, err = padNumber(i.cfg.Season, i.cfg.SeasonPad); err != nil {
			return r.fail(err)
		}
	}

	switch {
	case i.cfg.ShowName != "":
		r.ShowName = i.cfg.ShowName
	case m != nil:
		r.ShowName = Normalize(rawShow, i.cfg)
	}

	if rawEpisode != "" {
		r.EpisodeName = Normalize(rawEpisode, i.cfg)
	}

	if i.cfg.Strict {
		for _, f := range i.template.Fields() {
			if r.Value(f) == "" {
				return r.fail(fmt.Errorf("%w: {%s}", ErrMissingField, f))
			}
		}
	}

	name := strings.TrimSpace(i.template.Render(r.Value))
	name = strings.ReplaceAll(name, " ", i.cfg.Delimiter)

	r.NewName = name + r.Extension
	r.OK = true
	return r
}

// splitPath separates directory, base name and extension. Leading dots belong
// to the base name, so ".hidden" has no extension.
func splitPath(rawPath string) *Result {
	dir, file := filepath.Split(rawPath)
	if dir != "" {
		dir = filepath.Clean(dir)
	}
	ext := filepath.Ext(strings.TrimLeft(file, "."))

	return &Result{
		OriginalPath: rawPath,
		Directory:    dir,
		BaseName:     strings.TrimSuffix(file, ext),
		Extension:    ext,
	}
}

// padNumber left pads digits with zeros to at least width characters. The
// digits are kept as written, never truncated.
func padNumber(digits string, width int) (string, error) {
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return "", fmt.Errorf("%w: %q", ErrUnparseableNumber, digits)
	}
	if n := width - len(digits); n > 0 {
		digits = strings.Repeat("0", n) + digits
	}
	return digits, nil
}
