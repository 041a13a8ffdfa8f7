package urlpath

import "strings"

// Separator divides path segments.
const Separator = "/"

// Path is a parsed URL path.
//
// An absolute path starts with an empty root segment, so "/a/b" has the
// segments "", "a", "b". A trailing separator yields a final empty segment.
type Path struct {
	raw      string
	segments []string
}

// ParsePath splits s into segments. It never fails; query strings and
// fragments are not interpreted.
func ParsePath(s string) Path {
	switch {
	case s == "":
		return Path{}
	case s == Separator:
		return Path{raw: s, segments: []string{""}}
	case strings.HasPrefix(s, Separator):
		segs := append([]string{""}, strings.Split(s[1:], Separator)...)
		return Path{raw: s, segments: segs}
	default:
		return Path{raw: s, segments: strings.Split(s, Separator)}
	}
}

// IsAbsolute reports whether the path starts with a separator.
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.raw, Separator)
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// String returns the path as it was parsed.
func (p Path) String() string {
	return p.raw
}

// remainder rebuilds the sub-path starting at segment i.
// A single trailing segment is returned bare, except the empty segment left
// by a trailing separator, which is returned as the separator. Longer
// remainders keep their leading separator unless they start a relative path.
func (p Path) remainder(i int) string {
	rest := p.segments[i:]
	switch {
	case len(rest) == 1 && rest[0] == "" && i > 0:
		return Separator
	case len(rest) == 1:
		return rest[0]
	case i == 0 && !p.IsAbsolute():
		return strings.Join(rest, Separator)
	default:
		return Separator + strings.Join(rest, Separator)
	}
}
