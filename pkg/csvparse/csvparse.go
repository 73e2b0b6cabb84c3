// Package csvparse turns CSV source tables into ordered rows keyed by header.
package csvparse

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// gzipMagic is the two-byte prefix of a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// Parse parses a CSV text blob. The first non-empty line is the header.
// Empty input yields no rows and no error.
func Parse(text string) ([]Row, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseBytes parses raw file contents, transparently decompressing gzip input.
func ParseBytes(data []byte) ([]Row, error) {
	if !IsGzip(data) {
		return ParseReader(bytes.NewReader(data))
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	return ParseReader(zr)
}

// IsGzip reports whether data starts with the gzip magic bytes.
func IsGzip(data []byte) bool {
	return len(data) > 2 && bytes.HasPrefix(data, gzipMagic)
}

// ParseReader parses CSV records from r.
func ParseReader(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header *Header
	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		if header == nil {
			header = NewHeader(record)
			continue
		}
		rows = append(rows, header.Row(record))
	}
	return rows, nil
}

// Serialize writes rows back to CSV text, using the first row's columns as header.
func Serialize(rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	columns := rows[0].Columns()
	if err := w.Write(columns); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if len(record) == 1 && record[0] == "" {
			// A bare empty cell would be an empty line, which readers skip.
			w.Flush()
			buf.WriteString("\"\"\n")
			continue
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return buf.String(), nil
}

// isBlank reports a whitespace-only line. encoding/csv already drops empty
// lines, so a lone empty field can only come from a quoted "" cell.
func isBlank(record []string) bool {
	return len(record) == 1 && record[0] != "" && strings.TrimSpace(record[0]) == ""
}
