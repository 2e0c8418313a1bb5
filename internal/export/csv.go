// Package export renders stored records as comma-separated text.
package export

import (
	"bytes"
	"encoding/csv"
	"io"

	"medguide/internal/domain/entity"
	"medguide/internal/domain/schema"
)

const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes a header row followed by one row per entry; missing keys become empty cells.
// encoding/csv quotes cells containing commas, quotes or newlines.
func WriteCSV(w io.Writer, header []string, rows []map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			line[i] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Records renders records of one kind with the table's column order.
func Records[T entity.Record](w io.Writer, table schema.Table, records []T) error {
	rows := make([]map[string]string, len(records))
	for i, r := range records {
		rows[i] = r.Fields()
	}
	return WriteCSV(w, table.ColumnNames(), rows)
}

// Bytes is Records into memory.
func Bytes[T entity.Record](table schema.Table, records []T) ([]byte, error) {
	var buf bytes.Buffer
	if err := Records(&buf, table, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
