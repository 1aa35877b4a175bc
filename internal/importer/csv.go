// Package importer turns uploaded delimited files into persistence-ready
// records. Parsing and name resolution are pure; nothing here touches the
// database.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one parsed data row: the 1-based row number (header excluded) and
// a column name → raw value mapping.
type Row struct {
	Num    int
	Fields map[string]string
}

// ReadRows parses comma-delimited text with a header row into Rows.
// Short records are padded with empty strings so optional trailing columns
// may be omitted; fully empty lines are skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	num := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", num+1, err)
		}

		empty := true
		for _, v := range record {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		num++
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				fields[name] = record[i]
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, Row{Num: num, Fields: fields})
	}
	return rows, nil
}

// missing reports whether a field value counts as absent.
// Whitespace-only values are missing.
func missing(v string) bool {
	return strings.TrimSpace(v) == ""
}
