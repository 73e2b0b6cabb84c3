package csvparse

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Header maps column names to positions. Rows parsed from the same table
// share one Header.
type Header struct {
	columns []string
	index   map[string]int
}

// NewHeader builds a Header from raw header cells. Cells are trimmed and a
// leading UTF-8 byte order mark is dropped. On duplicate names the first
// column wins.
func NewHeader(cells []string) *Header {
	h := &Header{
		columns: make([]string, len(cells)),
		index:   make(map[string]int, len(cells)),
	}
	for i, c := range cells {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		c = strings.TrimSpace(c)
		h.columns[i] = c
		if _, exists := h.index[c]; !exists {
			h.index[c] = i
		}
	}
	return h
}

// Columns returns the header names in file order.
func (h *Header) Columns() []string {
	return append([]string(nil), h.columns...)
}

// Row positions cells against the header. Missing trailing cells become
// empty strings; extra cells are dropped.
func (h *Header) Row(cells []string) Row {
	values := make([]string, len(h.columns))
	copy(values, cells)
	return Row{header: h, values: values}
}

// Row is one CSV record keyed by header name.
type Row struct {
	header *Header
	values []string
}

// NewRow builds a standalone row from column names and cells.
func NewRow(columns, cells []string) Row {
	return NewHeader(columns).Row(cells)
}

// Lookup returns the cell for column and whether the column exists.
func (r Row) Lookup(column string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[column]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Get returns the cell for column, or "" if the column does not exist.
func (r Row) Get(column string) string {
	v, _ := r.Lookup(column)
	return v
}

// First returns the first non-empty cell among alternate column names.
func (r Row) First(columns ...string) string {
	for _, c := range columns {
		if v := r.Get(c); v != "" {
			return v
		}
	}
	return ""
}

// Columns returns the row's column names in file order.
func (r Row) Columns() []string {
	if r.header == nil {
		return nil
	}
	return r.header.Columns()
}

// Map returns the row as a plain map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for _, c := range r.Columns() {
		if _, seen := m[c]; !seen {
			m[c] = r.Get(c)
		}
	}
	return m
}

// MarshalJSON encodes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]struct{}, len(r.values))
	for _, c := range r.Columns() {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if len(seen) > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Get(c))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
