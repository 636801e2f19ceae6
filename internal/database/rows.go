package database

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/trogers1052/finviz-tracker/internal/models"
)

// Row is a single table row keyed by column
type Row map[Column]any

// RowSet is an ordered, in-memory copy of table rows
type RowSet struct {
	Table   Table
	Columns []Column
	Rows    []Row
}

// Len returns the number of rows
func (rs *RowSet) Len() int {
	return len(rs.Rows)
}

// Values returns the values of one column in row order
func (rs *RowSet) Values(column Column) ([]any, error) {
	if !slices.Contains(rs.Columns, column) {
		return nil, fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, column, rs.Table)
	}
	out := make([]any, 0, len(rs.Rows))
	for _, r := range rs.Rows {
		out = append(out, r[column])
	}
	return out, nil
}

// Filter returns the rows whose column value is one of values. Values may be
// passed individually or as a single slice, so Filter(c, "x") and
// Filter(c, []string{"x"}) select the same rows. Row order is preserved.
func (rs *RowSet) Filter(column Column, values ...any) (*RowSet, error) {
	if !slices.Contains(rs.Columns, column) {
		return nil, fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, column, rs.Table)
	}

	wanted := make(map[string]struct{})
	for _, v := range flattenValues(values) {
		wanted[valueKey(v)] = struct{}{}
	}

	out := &RowSet{Table: rs.Table, Columns: rs.Columns, Rows: []Row{}}
	for _, r := range rs.Rows {
		if _, ok := wanted[valueKey(r[column])]; ok {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

// Distribution counts the values of column in first-seen order. NULL
// values are reported as "NA".
func (rs *RowSet) Distribution(column Column) ([]models.StatusCount, error) {
	values, err := rs.Values(column)
	if err != nil {
		return nil, err
	}

	var order []string
	counts := make(map[string]int)
	for _, v := range values {
		key := "NA"
		if v != nil {
			key = valueKey(v)
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]models.StatusCount, 0, len(order))
	for _, key := range order {
		out = append(out, models.StatusCount{
			Value:   key,
			Count:   counts[key],
			Percent: float64(counts[key]) / float64(len(values)) * 100,
		})
	}
	return out, nil
}

func flattenValues(values []any) []any {
	var out []any
	for _, v := range values {
		rv := reflect.ValueOf(v)
		if v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				out = append(out, rv.Index(i).Interface())
			}
			continue
		}
		out = append(out, v)
	}
	return out
}

// valueKey gives values from the store and values from callers a common
// comparable form, e.g. int64(5) from the driver and 5 from a caller.
func valueKey(v any) string {
	switch x := v.(type) {
	case nil:
		return "\x00null"
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// GetTable loads every row of table in its stable order
func (db *DB) GetTable(ctx context.Context, table Table) (*RowSet, error) {
	schema, err := lookupColumns(table)
	if err != nil {
		return nil, err
	}

	cols := make([]string, len(schema.Columns))
	for i, c := range schema.Columns {
		cols[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "), quoteIdent(table), quoteIdent(schema.OrderBy))

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	out := &RowSet{Table: table, Columns: schema.Columns, Rows: []Row{}}
	for rows.Next() {
		values := make([]any, len(schema.Columns))
		ptrs := make([]any, len(schema.Columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}

		row := make(Row, len(schema.Columns))
		for i, c := range schema.Columns {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	return out, nil
}

// UpdateValue sets updateCol to value on every row of table where searchCol
// equals searchVal. An unknown table or column is an error; no matching rows
// is not, it simply affects zero rows.
func (db *DB) UpdateValue(ctx context.Context, table Table, searchCol Column, searchVal any, updateCol Column, value any) (int64, error) {
	if _, err := lookupColumns(table, searchCol, updateCol); err != nil {
		return 0, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		quoteIdent(table), quoteIdent(updateCol), quoteIdent(searchCol))
	result, err := db.conn.ExecContext(ctx, db.rebind(query), value, searchVal)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s.%s: %w", table, updateCol, err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// Insert appends rows to table in a single transaction. Each row may carry
// its own set of columns; anything beyond column names is left to the store.
func (db *DB) Insert(ctx context.Context, table Table, rows []Row) (int64, error) {
	if _, err := lookupColumns(table); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, r := range rows {
		cols := make([]Column, 0, len(r))
		for c := range r {
			cols = append(cols, c)
		}
		slices.Sort(cols)
		if _, err := lookupColumns(table, cols...); err != nil {
			return 0, err
		}

		query := fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quoteIdent(table))
		args := make([]any, len(cols))
		if len(cols) > 0 {
			names := make([]string, len(cols))
			marks := make([]string, len(cols))
			for i, c := range cols {
				names[i] = quoteIdent(c)
				marks[i] = "?"
				args[i] = r[c]
			}
			query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
				quoteIdent(table), strings.Join(names, ", "), strings.Join(marks, ", "))
		}

		if _, err := tx.ExecContext(ctx, db.rebind(query), args...); err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert into %s: %w", table, err)
	}
	return inserted, nil
}
