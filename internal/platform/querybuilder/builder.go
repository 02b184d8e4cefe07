// Package querybuilder assembles the small set of PostgreSQL statements the
// repositories issue. Placeholders are numbered ($1, $2, ...) in the order
// arguments are bound.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// args collects bound values and hands out their placeholders.
type args struct {
	values []any
}

func (a *args) bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Condition renders one predicate of a WHERE clause.
type Condition func(buf *strings.Builder, a *args)

func compare(column, op string, value any) Condition {
	return func(buf *strings.Builder, a *args) {
		buf.WriteString(column)
		buf.WriteString(op)
		buf.WriteString(a.bind(value))
	}
}

func Eq(column string, value any) Condition { return compare(column, " = ", value) }
func Gte(column string, value any) Condition { return compare(column, " >= ", value) }
func Lt(column string, value any) Condition { return compare(column, " < ", value) }

// In matches column against values. An empty list matches no row.
func In(column string, values []any) Condition {
	return func(buf *strings.Builder, a *args) {
		if len(values) == 0 {
			buf.WriteString("1=0")
			return
		}
		buf.WriteString(column)
		buf.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.bind(v))
		}
		buf.WriteByte(')')
	}
}

func IsNull(column string) Condition {
	return func(buf *strings.Builder, _ *args) {
		buf.WriteString(column)
		buf.WriteString(" IS NULL")
	}
}

type SelectBuilder struct {
	columns    []string
	table      string
	conditions []Condition
	orderBy    []string
	limit      int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Where appends conditions joined with AND. Nil conditions are skipped.
func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	for _, c := range conditions {
		if c != nil {
			b.conditions = append(b.conditions, c)
		}
	}
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select: table is required")
	}
	columns := b.columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	var buf strings.Builder
	var a args
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	for i, c := range b.conditions {
		if i == 0 {
			buf.WriteString(" WHERE ")
		} else {
			buf.WriteString(" AND ")
		}
		c(&buf, &a)
	}
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}

	return buf.String(), a.values, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append(b.columns, columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.values = append(b.values, values...)
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert: table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert into %s: no columns", b.table)
	}
	if len(b.columns) != len(b.values) {
		return "", nil, fmt.Errorf("insert into %s: %d columns but %d values", b.table, len(b.columns), len(b.values))
	}

	var buf strings.Builder
	var a args
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES (")
	for i, v := range b.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.bind(v))
	}
	buf.WriteByte(')')
	if b.suffix != "" {
		buf.WriteByte(' ')
		buf.WriteString(b.suffix)
	}

	return buf.String(), a.values, nil
}

// OnConflictUpdate renders an upsert suffix that refreshes columns from the
// proposed row. extra holds raw assignments such as "updated_at = NOW()".
// The statement returns the stored row.
func OnConflictUpdate(target string, columns []string, extra ...string) string {
	sets := make([]string, 0, len(columns)+len(extra))
	for _, column := range columns {
		sets = append(sets, column+" = EXCLUDED."+column)
	}
	sets = append(sets, extra...)
	return "ON CONFLICT (" + target + ") DO UPDATE SET " + strings.Join(sets, ", ") + " RETURNING *"
}

// OnConflictIgnore renders an insert-if-absent suffix. The statement returns
// no row when the target already exists.
func OnConflictIgnore(target string) string {
	return "ON CONFLICT (" + target + ") DO NOTHING RETURNING *"
}
