// Package tabular provides a codec for aligned plain-text tables, the
// kind produced by ps, kubectl and friends: a header row naming the
// columns, then one row per record, cells separated by runs of two or
// more spaces.
package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/moltdata/molt"
)

// tabularCodec implements molt.Codec for aligned text tables.
type tabularCodec struct{}

// New returns a tabular codec.
func New() molt.Codec {
	return &tabularCodec{}
}

// ContentType returns the MIME type for tabular text.
func (c *tabularCodec) ContentType() string {
	return "text/plain"
}

// Marshal encodes v as an aligned table. The column set is the sorted
// union of keys across all records.
func (c *tabularCodec) Marshal(v any) ([]byte, error) {
	records, err := recordMaps(v)
	if err != nil {
		return nil, err
	}

	header := columnUnion(records)
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(header, "\t"))
	cells := make([]string, len(header))
	for _, rec := range records {
		for i, col := range header {
			cells[i] = rec[col]
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an aligned table into v.
func (c *tabularCodec) Unmarshal(data []byte, v any) error {
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return errors.New("tabular: missing header row")
	}

	header := splitCells(lines[0])
	var rows [][]string
	for n, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitCells(line)
		if len(cells) > len(header) {
			return fmt.Errorf("tabular: row %d has %d cells, header has %d", n+1, len(cells), len(header))
		}
		rows = append(rows, cells)
	}

	switch t := v.(type) {
	case *any:
		out := make([]any, 0, len(rows))
		for _, cells := range rows {
			rec := make(map[string]any, len(header))
			for i, col := range header {
				rec[col] = cellAt(cells, i)
			}
			out = append(out, rec)
		}
		*t = out
		return nil
	case *[]map[string]string:
		out := make([]map[string]string, 0, len(rows))
		for _, cells := range rows {
			rec := make(map[string]string, len(header))
			for i, col := range header {
				rec[col] = cellAt(cells, i)
			}
			out = append(out, rec)
		}
		*t = out
		return nil
	default:
		return fmt.Errorf("tabular: cannot unmarshal into %T", v)
	}
}

// splitCells breaks a row on runs of two or more spaces, or tabs.
// Single spaces stay inside a cell.
func splitCells(line string) []string {
	var cells []string
	var cell strings.Builder
	spaces := 0

	flush := func() {
		if cell.Len() > 0 {
			cells = append(cells, cell.String())
			cell.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == '\t':
			spaces = 0
			flush()
		case r == ' ':
			spaces++
			if spaces >= 2 {
				if spaces == 2 {
					s := cell.String()
					cell.Reset()
					cell.WriteString(strings.TrimSuffix(s, " "))
				}
				flush()
			} else {
				cell.WriteRune(' ')
			}
		default:
			spaces = 0
			cell.WriteRune(r)
		}
	}
	flush()
	return cells
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

// recordMaps normalizes the accepted input shapes to string maps.
func recordMaps(v any) ([]map[string]string, error) {
	switch t := v.(type) {
	case []map[string]string:
		return t, nil
	case []map[string]any:
		out := make([]map[string]string, len(t))
		for i, rec := range t {
			out[i] = stringRecord(rec)
		}
		return out, nil
	case []any:
		out := make([]map[string]string, len(t))
		for i, item := range t {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("tabular: record %d is %T, want map", i, item)
			}
			out[i] = stringRecord(rec)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tabular: cannot marshal %T", v)
	}
}

func stringRecord(rec map[string]any) map[string]string {
	out := make(map[string]string, len(rec))
	for k, v := range rec {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

func columnUnion(records []map[string]string) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
