// Package urlpath applies the subst placeholder grammar to URL paths.
//
// A path template such as "/api/${id}/cell/${ref}" is a list of components:
// separators, literal segments and placeholders that each occupy a whole
// segment. Templates render like any other subst template:
//
//	t := urlpath.MustParse("/api/${id}")
//	p, err := t.RenderMap(map[subst.Name]string{subst.MustName("id"): "42"})
//	// p == "/api/42"
//
// They also run in reverse. TryMatch aligns a concrete path against the
// template and returns the Values bound to each placeholder:
//
//	v, ok := t.TryMatch(urlpath.ParsePath("/api/42"))
//	id, found, err := urlpath.Get(v, subst.MustName("id"), strconv.Atoi)
//
// Matching is positional and never backtracks. A template that runs out
// before the path is a prefix match. When the template ends in a placeholder,
// that placeholder captures the rest of the path, so "/files/${rest}" binds
// rest to "/a/b/c" for "/files/a/b/c".
package urlpath
