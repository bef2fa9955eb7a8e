package sqlfrag

import "strings"

// Condition is one entry of a filter's evaluation order.
type Condition[F any] struct {
	// Present reports whether the criterion is set on the filter value.
	Present func(f F) bool

	// Arg returns the value bound to the condition's placeholder. A nil Arg
	// marks a parameterless condition: it consumes no placeholder.
	Arg func(f F) any

	// Render produces the condition text. It receives the placeholder for
	// the bound value, or "" for parameterless conditions.
	Render func(placeholder string) string
}

// Filter builds a WHERE clause from a criteria value of type F.
//
// Conditions are evaluated in slice order and each present one consumes the
// next placeholder, so the order of the slice fixes parameter indices.
// Reordering it changes the generated SQL.
type Filter[F any] struct {
	// Validate runs before anything is built. Optional.
	Validate   func(f F) error
	Conditions []Condition[F]
}

// Build returns "WHERE c1 AND c2 …" with its arguments, or an empty
// Fragment when no criterion is present.
func (fl Filter[F]) Build(f F) (Fragment, error) {
	if fl.Validate != nil {
		if err := fl.Validate(f); err != nil {
			return Fragment{}, err
		}
	}

	var (
		conds []string
		args  []any
	)
	for _, c := range fl.Conditions {
		if !c.Present(f) {
			continue
		}
		if c.Arg == nil {
			conds = append(conds, c.Render(""))
			continue
		}
		args = append(args, c.Arg(f))
		conds = append(conds, c.Render(Placeholder(len(args))))
	}

	if len(conds) == 0 {
		return Fragment{}, nil
	}
	return Fragment{SQL: "WHERE " + strings.Join(conds, " AND "), Args: args}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Condition constructors
// ─────────────────────────────────────────────────────────────────────────────

// Compare binds value(f) against column with op (">=", "<=", "=", …) when
// the value is non-nil. A pointer to a zero value is present.
func Compare[F any, T any](column, op string, value func(f F) *T) Condition[F] {
	return Condition[F]{
		Present: func(f F) bool { return value(f) != nil },
		Arg:     func(f F) any { return *value(f) },
		Render:  func(ph string) string { return column + " " + op + " " + ph },
	}
}

// Contains matches column case-insensitively against "%value%" when value
// is not empty.
func Contains[F any](d Dialect, column string, value func(f F) string) Condition[F] {
	return Condition[F]{
		Present: func(f F) bool { return value(f) != "" },
		Arg:     func(f F) any { return "%" + value(f) + "%" },
		Render:  func(ph string) string { return d.ILike(column, ph) },
	}
}

// When emits the fixed, parameterless expr when present(f) holds.
func When[F any](present func(f F) bool, expr string) Condition[F] {
	return Condition[F]{
		Present: present,
		Render:  func(string) string { return expr },
	}
}
