package coerce

import (
	"errors"

	"github.com/ibelion/omniwiki/pkg/csvparse"
)

// Collector coerces cells of one source table and keeps every warning it
// raised, tagged with table, column and data line.
type Collector struct {
	Table    string
	line     int
	warnings []*Warning
}

// NewCollector returns a Collector for table.
func NewCollector(table string) *Collector {
	return &Collector{Table: table}
}

// Next advances the data line counter. Builders call it once per row.
func (c *Collector) Next() {
	c.line++
}

// Number coerces a nullable numeric cell.
func (c *Collector) Number(row csvparse.Row, column string) *float64 {
	n, err := NullableNumber(row.Get(column))
	c.record(column, err)
	return n
}

// Int coerces a nullable integer cell.
func (c *Collector) Int(row csvparse.Row, column string) *int {
	n, err := NullableInt(row.Get(column))
	c.record(column, err)
	return n
}

// RequiredInt coerces an integer cell that must be present. Missing or
// malformed cells yield 0 and a warning.
func (c *Collector) RequiredInt(row csvparse.Row, column string) int {
	n := c.Int(row, column)
	if n == nil {
		if isNull(row.Get(column)) {
			c.record(column, malformed(row.Get(column), "required value missing"))
		}
		return 0
	}
	return *n
}

// RequiredFloat is RequiredInt for fractional values.
func (c *Collector) RequiredFloat(row csvparse.Row, column string) float64 {
	n := c.Number(row, column)
	if n == nil {
		if isNull(row.Get(column)) {
			c.record(column, malformed(row.Get(column), "required value missing"))
		}
		return 0
	}
	return *n
}

// Stats coerces a "key:value" stats cell.
func (c *Collector) Stats(row csvparse.Row, column string) map[string]float64 {
	stats, err := Stats(row.Get(column))
	c.record(column, err)
	return stats
}

// Warnings returns the warnings recorded so far.
func (c *Collector) Warnings() []*Warning {
	return c.warnings
}

// Err joins all recorded warnings, or returns nil.
func (c *Collector) Err() error {
	errs := make([]error, len(c.warnings))
	for i, w := range c.warnings {
		errs[i] = w
	}
	return errors.Join(errs...)
}

func (c *Collector) record(column string, err error) {
	if err == nil {
		return
	}
	var ws []*Warning
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var w *Warning
			if errors.As(e, &w) {
				ws = append(ws, w)
			}
		}
	} else {
		var w *Warning
		if errors.As(err, &w) {
			ws = append(ws, w)
		}
	}
	for _, w := range ws {
		tagged := *w
		tagged.Table = c.Table
		tagged.Column = column
		tagged.Line = c.line
		c.warnings = append(c.warnings, &tagged)
	}
}
