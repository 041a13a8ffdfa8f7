/*
Package expr adds a small expression language to subst templates.

# Overview

With Parser installed, the body of "${...}" may be an expression rather than a
single name. A body that is a valid name still parses as a plain placeholder,
so existing templates keep their meaning:

	p := subst.NewParser(subst.WithExpressionParser(expr.Parser))
	e := subst.NewEngine(
	    subst.WithParser(p),
	    subst.WithEvaluator(expr.New()),
	    subst.WithBindings(bindings),
	)
	out, _ := e.ParseAndRenderString(ctx, "${count + 1} items, ready=${status == 'ok'}")

# Expression Syntax

	<expr> := <comparison>
	        | <expr> 'and' <expr>
	        | <expr> 'or' <expr>
	        | 'not' <expr>
	        | '!' <expr>
	        | <sum>

	<comparison> := <sum> <op> <sum>
	<op> := '==' | '!=' | '<' | '>' | '<=' | '>=' | 'contains' | custom
	<sum> := <value> | <sum> '+' <value>
	<value> := 'string' | "string" | number | true | false | null | identifier

Identifiers are placeholder names. During rendering they resolve through the
engine, so an identifier bound to another template is rendered first and
cycles through expressions are reported like any other cycle. An identifier
with no binding is treated as a bare word, as in "status == active".

# Operators

Comparison operators:

	==         Equal (string comparison)
	!=         Not equal (string comparison)
	<          Less than (numeric comparison)
	>          Greater than (numeric comparison)
	<=         Less than or equal (numeric comparison)
	>=         Greater than or equal (numeric comparison)
	contains   String contains substring

'+' adds when every operand is numeric and concatenates otherwise.
Operators inside quoted strings are ignored.

# Results

Conditions render as "true" or "false". Sums and single values render with
subst.FormatValue.

# Conditions Without Templates

Test evaluates a condition against a map, which suits config flags and
routing rules:

	ok, _ := expr.Test("status == 'active' and count > 0", vars)

# Custom Operators

	e := expr.New(
	    expr.WithCustomOperator("matches", func(left, right any) bool {
	        matched, _ := regexp.MatchString(fmt.Sprint(right), fmt.Sprint(left))
	        return matched
	    }),
	)

# Truthiness

Single values used as conditions are evaluated for truthiness:

  - nil/null: false
  - bool: the boolean value
  - string: false if empty, true otherwise
  - numbers (int, int64, float64): false if zero, true otherwise
  - other types: true
*/
package expr
