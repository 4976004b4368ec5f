package importer

// mapper.go holds the plumbing shared by the per-format row mappers.
//
// Each fixed-header CSV format is described by a declarative binding
// table (column name → candidate field) that is resolved against the
// parsed header once per file. A format revision then only requires
// updating the table, and column-count mismatches become a single
// validation step instead of scattered index arithmetic.

import (
	"fmt"
	"strings"
)

// columnBinding binds one header column to a RawCandidate field.
type columnBinding struct {
	Column   string
	Assign   func(*RawCandidate, string)
	Required bool // skip the row when the trimmed value is empty
}

// rowMapper maps tokenized rows for one fixed-header CSV format.
type rowMapper struct {
	bindings []columnBinding
	resolved []int // header position per binding
	minCols  int
}

// newRowMapper resolves bindings against the parsed header. The detector
// has already matched the header verbatim, so a missing bound column
// means the binding table itself drifted from the header constant.
func newRowMapper(bindings []columnBinding, header []string) (*rowMapper, error) {
	idx := makeHeaderIndex(header)

	m := &rowMapper{
		bindings: bindings,
		resolved: make([]int, len(bindings)),
	}
	for i, b := range bindings {
		pos, ok := idx[strings.ToLower(b.Column)]
		if !ok {
			return nil, fmt.Errorf("column %q not found in header", b.Column)
		}
		m.resolved[i] = pos
		if pos+1 > m.minCols {
			m.minCols = pos + 1
		}
	}
	return m, nil
}

// mapRow converts one tokenized row into a RawCandidate, or returns the
// skip reason for incomplete rows. Mapping never aborts the batch.
func (m *rowMapper) mapRow(row []string) (RawCandidate, error) {
	if len(row) < m.minCols {
		return RawCandidate{}, fmt.Errorf("expected at least %d columns, got %d", m.minCols, len(row))
	}

	var c RawCandidate
	for i, b := range m.bindings {
		val := cleanCell(row[m.resolved[i]])
		if val == "" && b.Required {
			return RawCandidate{}, fmt.Errorf("missing required field %q", b.Column)
		}
		b.Assign(&c, val)
	}
	return c, nil
}

// headerIndex maps lowercased column names to their position.
type headerIndex map[string]int

func makeHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(cleanCell(h))] = i
	}
	return idx
}

// cleanCell removes common CSV artifacts from a cell value: surrounding
// whitespace, the Excel formula prefix (="..."), and stray wrapping
// quotes the tokenizer did not consume.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else {
		s = strings.TrimPrefix(s, "=")
	}

	return strings.Trim(s, `"'`)
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
