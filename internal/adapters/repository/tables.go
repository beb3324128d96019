// Package repository holds the reference table store: the WHO and CDC LMS
// tables keyed by table name and row key.
package repository

import (
	"sort"

	"github.com/okian/growup/internal/domain/growth"
)

// Rows maps a row key ("22", "84.5") to its LMS parameters.
type Rows map[string]growth.LMS

// Tables is an immutable set of reference tables. It is safe for concurrent
// reads once constructed.
type Tables struct {
	tables map[string]Rows
}

var _ growth.Tables = (*Tables)(nil)

// NewTables copies src into a new store; later changes to src are not seen.
func NewTables(src map[string]Rows) *Tables {
	t := &Tables{tables: make(map[string]Rows, len(src))}
	for name, rows := range src {
		cp := make(Rows, len(rows))
		for k, v := range rows {
			cp[k] = v
		}
		t.tables[name] = cp
	}
	return t
}

// Lookup returns the LMS row for key in table.
func (t *Tables) Lookup(table, key string) (growth.LMS, bool) {
	rows, ok := t.tables[table]
	if !ok {
		return growth.LMS{}, false
	}
	p, ok := rows[key]
	return p, ok
}

// Has reports whether table was loaded.
func (t *Tables) Has(table string) bool {
	_, ok := t.tables[table]
	return ok
}

// Names returns the loaded table names in sorted order.
func (t *Tables) Names() []string {
	names := make([]string, 0, len(t.tables))
	for name := range t.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rows returns the number of rows in table.
func (t *Tables) Rows(table string) int {
	return len(t.tables[table])
}

// Len returns the number of tables.
func (t *Tables) Len() int {
	return len(t.tables)
}
