package urlpath

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/subst/pkg/subst"
)

// ExtractError reports a captured value that the caller's parser rejected.
type ExtractError struct {
	Name subst.Name
	Raw  string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract ${%s}=%s in %s: %v", e.Name, e.Raw, e.Path, e.Err)
}

// Unwrap returns the parser's error.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Values holds a successful match of a path against a template.
type Values struct {
	template  *Template
	path      Path
	positions []int
}

// Template returns the matched template.
func (v *Values) Template() *Template {
	return v.template
}

// Path returns the matched path.
func (v *Values) Path() Path {
	return v.path
}

// Components returns the template components, for discovering the names a
// match can yield.
func (v *Values) Components() []Component {
	return v.template.Components()
}

// Raw returns the text captured for name. The final placeholder captures
// the rest of the path; a placeholder past the end of the path captures "".
// ok is false if the template has no such placeholder.
func (v *Values) Raw(name subst.Name) (value string, ok bool) {
	last := len(v.template.components) - 1
	for i, comp := range v.template.components {
		if !comp.IsPlaceholder() || comp.name != name {
			continue
		}
		pos := v.positions[i]
		switch {
		case pos == unmatched:
			return "", true
		case i == last:
			return v.path.remainder(pos), true
		default:
			return v.path.segments[pos], true
		}
	}
	return "", false
}

// String describes the match.
func (v *Values) String() string {
	var b strings.Builder
	b.WriteString("template=")
	b.WriteString(v.template.String())
	b.WriteString(" path=")
	b.WriteString(v.path.String())
	return b.String()
}

// Get extracts the value captured for name and converts it with parse.
//
// found is false, with no error, if the template has no such placeholder.
// A parse failure is returned as an *ExtractError.
func Get[T any](v *Values, name subst.Name, parse func(string) (T, error)) (value T, found bool, err error) {
	raw, ok := v.Raw(name)
	if !ok {
		return value, false, nil
	}
	value, err = parse(raw)
	if err != nil {
		var zero T
		return zero, true, &ExtractError{Name: name, Raw: raw, Path: v.path.String(), Err: err}
	}
	return value, true, nil
}
