package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/db/sqldb/impls/pgsql"
	"github.com/zeptools/gw-pgconn/nullable"
)

const nullText = "NULL"

func newTable(w io.Writer, cols []string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	return t
}

// renderRows drains rows into a table.
func renderRows(w io.Writer, rows sqldb.Rows) error {
	cols := rows.Columns()
	t := newTable(w, cols)

	n := 0
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		row := make(table.Row, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = nullText
			}
		}
		t.AppendRow(row)
		n++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if n == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", n)
	return nil
}

// renderResult prints a row table for tuple results and the affected row
// count for commands.
func renderResult(w io.Writer, res *pgsql.Result) error {
	if res.Status() != pgsql.StatusTuplesOK && res.Status() != pgsql.StatusSingleTuple {
		_, err := fmt.Fprintf(w, "%s, %d rows affected\n", res.Status(), res.AffectedRows())
		return err
	}
	if res.NumRows() == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}
	t := newTable(w, res.Columns())
	for r := range res.NumRows() {
		row := make(table.Row, res.NumFields())
		for c := range row {
			if res.IsNull(r, c) {
				row[c] = nullText
			} else {
				row[c] = res.Value(r, c)
			}
		}
		t.AppendRow(row)
	}
	t.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", res.NumRows())
	return err
}

// renderJSON writes rows as an array of objects keyed by column name; NULL
// becomes null.
func renderJSON(w io.Writer, rows sqldb.Rows) error {
	cols := rows.Columns()
	results := []map[string]nullable.String{}
	for rows.Next() {
		values := make([]nullable.String, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		row := make(map[string]nullable.String, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
