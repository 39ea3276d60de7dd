// Package filter turns sparse optional listing filters into a parameterized WHERE clause.
package filter

import (
	"fmt"
	"strings"
)

// Builder collects conditions and their arguments. Placeholders are numbered in the
// order conditions are added, so Args always lines up with Where.
type Builder struct {
	conditions []string
	args       []any
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) add(format, column string, value any) *Builder {
	b.args = append(b.args, value)
	b.conditions = append(b.conditions, fmt.Sprintf(format, column, len(b.args)))
	return b
}

// Eq adds "column = $n" unless value is empty.
func (b *Builder) Eq(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.add("%s = $%d", column, value)
}

// EqInt adds "column = $n" unless value is zero.
func (b *Builder) EqInt(column string, value int) *Builder {
	if value == 0 {
		return b
	}
	return b.add("%s = $%d", column, value)
}

// ILike adds a case-insensitive substring match unless value is empty.
func (b *Builder) ILike(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.add("%s ILIKE $%d", column, "%"+value+"%")
}

// Gte adds "column >= $n" unless value is empty.
func (b *Builder) Gte(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.add("%s >= $%d", column, value)
}

// Lte adds "column <= $n" unless value is empty.
func (b *Builder) Lte(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.add("%s <= $%d", column, value)
}

// Where returns "WHERE c1 AND c2 ..." or an empty string when no filter is set.
func (b *Builder) Where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conditions, " AND ")
}

// Args returns a copy of the arguments, safe to extend for a single query.
func (b *Builder) Args() []any {
	args := make([]any, len(b.args))
	copy(args, b.args)
	return args
}

// Paginate returns the LIMIT/OFFSET clause numbered after the filter placeholders and
// the full argument list for the fetch query. The builder itself is left untouched so
// its Where/Args can still feed the count query.
func (b *Builder) Paginate(p Page) (string, []any) {
	n := len(b.args)
	clause := fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2)
	return clause, append(b.Args(), p.Size, p.Offset())
}
