package naming

import (
	"fmt"
	"strings"
)

// Template is a compiled naming template. Placeholders are written {field};
// {{ and }} stand for literal braces.
type Template struct {
	raw      string
	segments []segment
	fields   []Field
}

// segment is either literal text or a placeholder.
type segment struct {
	literal string
	field   Field
}

// CompileTemplate parses s. Unknown placeholders and unbalanced braces are
// rejected with ErrInvalidTemplate.
func CompileTemplate(s string) (*Template, error) {
	t := &Template{raw: s}
	seen := make(map[Field]bool)

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d in %q", ErrInvalidTemplate, i, s)
			}
			name := Field(s[i+1 : i+1+end])
			if !name.IsValid() {
				return nil, fmt.Errorf("%w: unknown field {%s} in %q", ErrInvalidTemplate, name, s)
			}
			flush()
			t.segments = append(t.segments, segment{field: name})
			if !seen[name] {
				seen[name] = true
				t.fields = append(t.fields, name)
			}
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' at offset %d in %q", ErrInvalidTemplate, i, s)
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return t, nil
}

// MustCompileTemplate is like CompileTemplate but panics on error.
func MustCompileTemplate(s string) *Template {
	t, err := CompileTemplate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Fields returns the distinct fields referenced, in order of first use.
func (t *Template) Fields() []Field {
	return t.fields
}

func (t *Template) String() string {
	return t.raw
}

// Render substitutes every placeholder with value(field).
func (t *Template) Render(value func(Field) string) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.field != "" {
			sb.WriteString(value(seg.field))
			continue
		}
		sb.WriteString(seg.literal)
	}
	return sb.String()
}
