package core

import "strings"

// SetBuilder accumulates SET assignments for a partial UPDATE with
// positional parameters. Only fields explicitly added are written, which is
// what gives updates their merge-not-replace semantics.
type SetBuilder struct {
	assignments []string
	args        []any
	argIndex    int
}

// NewSetBuilder creates an empty builder. Parameters start at $1.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{argIndex: 1}
}

// Set adds a column assignment with the next positional parameter.
func (sb *SetBuilder) Set(column string, value any) {
	sb.assignments = append(sb.assignments, column+" = $"+itoa(sb.argIndex))
	sb.args = append(sb.args, value)
	sb.argIndex++
}

// Empty reports whether no assignments were added.
func (sb *SetBuilder) Empty() bool {
	return len(sb.assignments) == 0
}

// Arg appends an extra argument (e.g. the WHERE id) and returns its
// placeholder, such as "$4".
func (sb *SetBuilder) Arg(value any) string {
	p := "$" + itoa(sb.argIndex)
	sb.args = append(sb.args, value)
	sb.argIndex++
	return p
}

// Build returns the SET clause and the accumulated arguments.
// Returns an empty clause and nil args when nothing was set.
func (sb *SetBuilder) Build() (string, []any) {
	if len(sb.assignments) == 0 {
		return "", nil
	}
	return "SET " + strings.Join(sb.assignments, ", "), sb.args
}

// itoa converts a small positive int to its decimal form.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	return string(b[n:])
}
