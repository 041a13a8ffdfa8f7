/*
Package subst parses and renders ${name} placeholder templates.

# Syntax

A template is literal text with two special characters:

  - '\' makes the next character literal, so "\$" is a dollar sign and "\\"
    a backslash
  - "${" opens a placeholder, closed by '}'

A placeholder name starts with a letter and continues with letters, digits,
'-' or '.', never containing "..". Names are case-sensitive and at most
MaxNameLength runes long.

# Parsing

Parse turns text into an immutable Node tree:

	node, err := subst.Parse("Hello ${name}!")

The tree is built from Text, Placeholder, Expression and *Sequence values.
NewSequence flattens nested sequences, so a *Sequence never contains another
*Sequence and always has at least two children.

A Parser can be configured with a different ExpressionParser, which turns
"${...}" bodies into Expression nodes (see package expr), and with a
DollarHandling for '$' not followed by '{':

	p := subst.NewParser(subst.WithDollarHandling(subst.DollarLiteral))
	node, _ := p.ParseString("costs $5 for ${item}")

# Rendering

Render and RenderToString write a tree using any Resolver. ValueMap is the
simplest:

	values := subst.ValueMap{subst.MustName("name"): "World"}
	out, _ := subst.RenderToString(node, subst.LineEndingNone, values)

# Engine

An Engine resolves placeholders to other templates, recursively, and rejects
cycles:

	b, _ := subst.ParseBindings(nil, map[string]string{
	    "a": "${b}",
	    "b": "${a}",
	})
	eng := subst.NewEngine(subst.WithBindings(b))
	_, err := eng.ParseAndRenderString(ctx, "${a}")
	// err: Cycle detected "a" -> "b" -> "a"

Each top-level call tracks the names it is resolving on its own stack, so an
Engine and the trees it renders can be shared between goroutines.

# Expander

Expander substitutes plain values from a map[string]any into strings, for
configuration values and the like:

	url := subst.Expand("https://${host}/api", map[string]any{"host": "example.com"})

# Errors

Parse errors are *InvalidCharacterError, *EmptyTextError or *SyntaxError.
Render errors are *CycleError and *MissingValueError. All unwrap to the
sentinel errors in this package for use with errors.Is.
*/
package subst
