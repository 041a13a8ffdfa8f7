package urlpath

// unmatched marks a component that lies past the end of the path.
const unmatched = -1

// TryMatch aligns p against the template.
//
// Components are consumed left to right against the path segments with no
// backtracking. Separators and segments alternate; literals must equal their
// segment exactly and placeholders accept any segment. A template that runs
// out first still matches. A path that runs out first matches only when all
// that is left of the template is its final placeholder, optionally preceded
// by the separator that was due next.
func (t *Template) TryMatch(p Path) (*Values, bool) {
	positions, ok := align(t.components, p)
	if !ok {
		return nil, false
	}
	return &Values{template: t, path: p, positions: positions}, true
}

// Matches reports whether TryMatch would succeed.
func (t *Template) Matches(p Path) bool {
	_, ok := align(t.components, p)
	return ok
}

// align returns the segment index consumed by each component, or unmatched
// for trailing components beyond the end of the path. Separator positions
// are not meaningful.
func align(components []Component, p Path) ([]int, bool) {
	segs := p.segments
	positions := make([]int, len(components))
	for i := range positions {
		positions[i] = unmatched
	}

	seg := 0
	requireSeparator := p.IsAbsolute()

	for i, comp := range components {
		if seg >= len(segs) {
			if i == 0 || !onlyFinalPlaceholder(components[i:], requireSeparator) {
				return nil, false
			}
			return positions, true
		}

		if requireSeparator {
			if !comp.IsSeparator() {
				return nil, false
			}
			requireSeparator = false
			if seg == 0 {
				seg++
			}
			continue
		}

		switch {
		case comp.IsSeparator():
			return nil, false
		case comp.IsPlaceholder():
		case comp.literal != segs[seg]:
			return nil, false
		}
		positions[i] = seg
		seg++
		requireSeparator = true
	}
	return positions, true
}

func onlyFinalPlaceholder(rest []Component, requireSeparator bool) bool {
	if requireSeparator {
		return len(rest) == 2 && rest[0].IsSeparator() && rest[1].IsPlaceholder()
	}
	return len(rest) == 1 && rest[0].IsPlaceholder()
}
