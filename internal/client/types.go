package client

import (
	"encoding/json"
	"fmt"
)

// statsResponse is the tabular envelope every stats.nba.com endpoint returns:
// named result sets of header names plus row tuples.
type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string            `json:"name"`
	Headers []string          `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// set returns the result set with the given name, or nil if absent
func (r *statsResponse) set(name string) *resultSet {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i]
		}
	}
	return nil
}

// columns maps header names to their positional index
func (rs *resultSet) columns() map[string]int {
	cols := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		cols[h] = i
	}
	return cols
}

// row wraps one rowSet tuple with its column index for typed access.
// Upstream cells are loosely typed (numbers arrive as floats, absent values
// as null), so every accessor tolerates nulls and numeric strings.
type row struct {
	cells []json.RawMessage
	cols  map[string]int
}

func (r row) raw(name string) (json.RawMessage, bool) {
	idx, ok := r.cols[name]
	if !ok || idx >= len(r.cells) {
		return nil, false
	}
	cell := r.cells[idx]
	if len(cell) == 0 || string(cell) == "null" {
		return nil, false
	}
	return cell, true
}

func (r row) str(name string) string {
	cell, ok := r.raw(name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(cell, &s); err != nil {
		return ""
	}
	return s
}

func (r row) int(name string) int {
	cell, ok := r.raw(name)
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(cell, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(cell, &s); err == nil {
		var v int
		if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
			return v
		}
	}
	return 0
}

func (r row) intPtr(name string) *int {
	if _, ok := r.raw(name); !ok {
		return nil
	}
	v := r.int(name)
	return &v
}

func (rs *resultSet) rows() []row {
	cols := rs.columns()
	out := make([]row, 0, len(rs.RowSet))
	for _, cells := range rs.RowSet {
		out = append(out, row{cells: cells, cols: cols})
	}
	return out
}
