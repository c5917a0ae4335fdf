// Package dataset models the loosely-typed tabular data this pipeline moves:
// JSON records with no fixed schema beyond the join key.
package dataset

import "sort"

// Dataset origin tags.
const (
	OriginFeedback = "feedback"
	OriginCustomer = "customer"
	OriginMerged   = "merged"
)

// JoinKey is the canonical identifier column every source is normalized onto.
const JoinKey = "customer_id"

// Record is one row: field name to decoded JSON scalar (string, float64,
// bool or nil).
type Record map[string]any

// Clone returns a copy of the record that is safe to mutate.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// Dataset is an ordered sequence of records plus the frame-level column
// order used for delimited output.
type Dataset struct {
	Origin  string
	Columns []string
	Rows    []Record
}

// FromMaps builds a dataset from decoded JSON objects. Columns are collected
// in first-seen order across rows; within a row keys contribute in sorted
// order, since decoded JSON objects carry no ordering of their own.
func FromMaps(origin string, rows []Record) *Dataset {
	ds := &Dataset{Origin: origin, Rows: rows}
	seen := make(map[string]bool)

	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				ds.Columns = append(ds.Columns, k)
			}
		}
	}

	return ds
}

// Len returns the row count.
func (ds *Dataset) Len() int {
	return len(ds.Rows)
}

// HasColumn reports whether the dataset exposes the named column.
func (ds *Dataset) HasColumn(name string) bool {
	for _, c := range ds.Columns {
		if c == name {
			return true
		}
	}

	return false
}

// RenameColumn renames a column in place, keeping its position. Rows that do
// not carry the old field are left untouched.
func (ds *Dataset) RenameColumn(from, to string) {
	for i, c := range ds.Columns {
		if c == from {
			ds.Columns[i] = to
		}
	}

	for _, row := range ds.Rows {
		if v, ok := row[from]; ok {
			delete(row, from)
			row[to] = v
		}
	}
}

// AddColumn appends a column with one value per row. A nil value marks a
// missing cell and is not written into the row.
func (ds *Dataset) AddColumn(name string, values []any) {
	if !ds.HasColumn(name) {
		ds.Columns = append(ds.Columns, name)
	}

	for i, row := range ds.Rows {
		if i < len(values) && values[i] != nil {
			row[name] = values[i]
		}
	}
}
