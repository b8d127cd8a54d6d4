// Package csv provides a CSV codec implementation.
//
// The generic model is a slice of records keyed by the header row:
// the first line names the columns, every following line is one
// record. All values are strings.
package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"

	"github.com/moltdata/molt"
)

// csvCodec implements molt.Codec for CSV.
type csvCodec struct{}

// New returns a CSV codec.
func New() molt.Codec {
	return &csvCodec{}
}

// ContentType returns the MIME type for CSV.
func (c *csvCodec) ContentType() string {
	return "text/csv"
}

// Marshal encodes v as CSV with a header row. The column set is the
// sorted union of keys across all records; absent keys write as empty
// cells.
func (c *csvCodec) Marshal(v any) ([]byte, error) {
	records, err := recordMaps(v)
	if err != nil {
		return nil, err
	}

	header := columnUnion(records)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, col := range header {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes CSV data into v.
func (c *csvCodec) Unmarshal(data []byte, v any) error {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("csv: missing header row")
	}

	header := rows[0]
	switch t := v.(type) {
	case *any:
		out := make([]any, 0, len(rows)-1)
		for _, row := range rows[1:] {
			rec := make(map[string]any, len(header))
			for i, col := range header {
				rec[col] = row[i]
			}
			out = append(out, rec)
		}
		*t = out
		return nil
	case *[]map[string]string:
		out := make([]map[string]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			rec := make(map[string]string, len(header))
			for i, col := range header {
				rec[col] = row[i]
			}
			out = append(out, rec)
		}
		*t = out
		return nil
	default:
		return fmt.Errorf("csv: cannot unmarshal into %T", v)
	}
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
				return nil, fmt.Errorf("csv: record %d is %T, want map", i, item)
			}
			out[i] = stringRecord(rec)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("csv: cannot marshal %T", v)
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
