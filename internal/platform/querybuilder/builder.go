// Package querybuilder assembles the small set of Postgres statements the
// repositories need, with $n placeholders and arguments kept in sync.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is one WHERE predicate. Conditions combine with AND.
type Condition struct {
	column string
	values []any
	isIn   bool
}

func Eq(column string, value any) Condition {
	return Condition{column: column, values: []any{value}}
}

func In(column string, values []any) Condition {
	return Condition{column: column, values: values, isIn: true}
}

func (c Condition) render(sb *strings.Builder, args []any) []any {
	if c.isIn {
		if len(c.values) == 0 {
			// An empty IN list matches nothing.
			sb.WriteString("1=0")
			return args
		}
		sb.WriteString(c.column)
		sb.WriteString(" IN (")
		for i, v := range c.values {
			if i > 0 {
				sb.WriteString(", ")
			}
			args = append(args, v)
			sb.WriteString("$" + strconv.Itoa(len(args)))
		}
		sb.WriteString(")")
		return args
	}

	args = append(args, c.values[0])
	sb.WriteString(c.column)
	sb.WriteString(" = $")
	sb.WriteString(strconv.Itoa(len(args)))
	return args
}

func renderWhere(sb *strings.Builder, conditions []Condition, args []any) []any {
	if len(conditions) == 0 {
		return args
	}
	sb.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		args = c.render(sb, args)
	}
	return args
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select needs columns")
	}
	if b.table == "" {
		return "", nil, fmt.Errorf("select needs a table")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	args := renderWhere(&sb, b.where, nil)
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}

	return sb.String(), args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	row     []any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.row = values
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, fmt.Errorf("insert needs a table")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert needs columns")
	}
	if len(b.row) != len(b.columns) {
		return "", nil, fmt.Errorf("insert has %d values for %d columns", len(b.row), len(b.columns))
	}

	placeholders := make([]string, len(b.row))
	for i := range b.row {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table,
		strings.Join(b.columns, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, b.row, nil
}

type UpdateBuilder struct {
	table      string
	setColumns []string
	setValues  []any
	where      []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.setColumns = append(b.setColumns, column)
	b.setValues = append(b.setValues, value)
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if b.table == "" {
		return "", nil, fmt.Errorf("update needs a table")
	}
	if len(b.setColumns) == 0 {
		return "", nil, fmt.Errorf("update needs at least one set")
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")

	args := make([]any, 0, len(b.setValues)+len(b.where))
	for i, column := range b.setColumns {
		if i > 0 {
			sb.WriteString(", ")
		}
		args = append(args, b.setValues[i])
		sb.WriteString(column)
		sb.WriteString(" = $")
		sb.WriteString(strconv.Itoa(len(args)))
	}

	args = renderWhere(&sb, b.where, args)
	return sb.String(), args, nil
}
