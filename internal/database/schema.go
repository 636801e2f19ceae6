package database

import (
	"context"
	"fmt"
	"slices"

	"github.com/trogers1052/finviz-tracker/internal/config"
)

// Table is the name of a registered table
type Table string

// Column is the name of a registered column
type Column string

// Registered tables
const (
	TableCompanyDetails Table = "companyDetails"
	TableFinviz         Table = "finviz"
	TableNewsDetails    Table = "newsDetails"
	TableTracker        Table = "trackerFinviz"
)

// Registered columns
const (
	ColID              Column = "id"
	ColTicker          Column = "ticker"
	ColCompany         Column = "company"
	ColSector          Column = "sector"
	ColIndustry        Column = "industry"
	ColCountry         Column = "country"
	ColMarketCap       Column = "market_cap"
	ColPrice           Column = "price"
	ColFloat           Column = "float"
	ColDate            Column = "date"
	ColTitle           Column = "title"
	ColLink            Column = "link"
	ColIsInNewsDetails Column = "isInNewsDetails"
	ColFullText        Column = "fullText"
	ColFinvizStatus    Column = "finvizStatus"
)

// TableSchema describes one table: its columns and the column that gives
// rows their stable order.
type TableSchema struct {
	Name    Table
	Columns []Column
	OrderBy Column
}

// Has reports whether c belongs to the table
func (s TableSchema) Has(c Column) bool {
	return slices.Contains(s.Columns, c)
}

// Registry is the typed schema every query is checked against
var Registry = map[Table]TableSchema{
	TableCompanyDetails: {
		Name: TableCompanyDetails,
		Columns: []Column{
			ColID, ColTicker, ColCompany, ColSector, ColIndustry,
			ColCountry, ColMarketCap, ColPrice, ColFloat,
		},
		OrderBy: ColID,
	},
	TableFinviz: {
		Name:    TableFinviz,
		Columns: []Column{ColID, ColTicker, ColDate, ColTitle, ColLink, ColIsInNewsDetails},
		OrderBy: ColID,
	},
	TableNewsDetails: {
		Name:    TableNewsDetails,
		Columns: []Column{ColID, ColLink, ColTicker, ColDate, ColTitle, ColFullText},
		OrderBy: ColID,
	},
	TableTracker: {
		Name:    TableTracker,
		Columns: []Column{ColID, ColTicker, ColFinvizStatus},
		OrderBy: ColID,
	},
}

// LookupTable resolves a table name, e.g. from user input
func LookupTable(name string) (TableSchema, error) {
	schema, ok := Registry[Table(name)]
	if !ok {
		return TableSchema{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return schema, nil
}

// lookupColumns returns the table schema after checking every column belongs to it
func lookupColumns(table Table, columns ...Column) (TableSchema, error) {
	schema, err := LookupTable(string(table))
	if err != nil {
		return TableSchema{}, err
	}

	var missing []Column
	for _, c := range columns {
		if !schema.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return TableSchema{}, fmt.Errorf("%w: %v in table %q, available columns are %v",
			ErrUnknownColumn, missing, table, schema.Columns)
	}
	return schema, nil
}

// VerifySchema checks that every registered table and column exists in the
// live store. It is meant to run once at startup.
func (db *DB) VerifySchema(ctx context.Context) error {
	tables, err := db.listTables(ctx)
	if err != nil {
		return err
	}

	for name, schema := range Registry {
		if !slices.Contains(tables, string(name)) {
			return fmt.Errorf("%w: table %q does not exist", ErrSchemaMismatch, name)
		}

		rows, err := db.conn.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", quoteIdent(name)))
		if err != nil {
			return fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		actual, err := rows.Columns()
		rows.Close()
		if err != nil {
			return fmt.Errorf("failed to read columns of %s: %w", name, err)
		}

		for _, c := range schema.Columns {
			if !slices.Contains(actual, string(c)) {
				return fmt.Errorf("%w: column %q missing from table %q", ErrSchemaMismatch, c, name)
			}
		}
	}

	return nil
}

func (db *DB) listTables(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table'`
	if db.driver == config.DriverPostgres {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`
	}

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
