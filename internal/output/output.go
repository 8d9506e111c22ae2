// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes report tables. Every writer preserves the
// table's column order.
package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/neonatal-trials/pkg/types"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTable  Format = "table"
	FormatSQLite Format = "sqlite"
)

// ErrUnsupportedFormat is returned for a format with no stream writer.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// maxCellWidth bounds cells in the human-readable table.
const maxCellWidth = 60

// Write encodes t to w in format. FormatSQLite is not a stream format; use
// a SQLiteSink for it.
func Write(w io.Writer, format Format, t types.Table) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatYAML:
		return WriteYAML(w, t)
	case FormatTable:
		return WriteTable(w, t)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// WriteCSV writes a header row followed by one line per row. An empty
// table still gets its header.
func WriteCSV(w io.Writer, t types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = cell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// orderedRow marshals as a JSON object with keys in column order.
type orderedRow struct {
	columns []string
	values  []any
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		var v any
		if i < len(r.values) {
			v = r.values[i]
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", col, err)
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// WriteJSON writes the rows as an indented array of objects.
func WriteJSON(w io.Writer, t types.Table) error {
	rows := make([]orderedRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = orderedRow{columns: t.Columns, values: row}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteYAML writes the rows as a sequence of mappings.
func WriteYAML(w io.Writer, t types.Table) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range t.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			var val yaml.Node
			if err := val.Encode(v); err != nil {
				return fmt.Errorf("encoding %s: %w", col, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&val)
		}
		seq.Content = append(seq.Content, m)
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteTable writes an aligned, human-readable table with a row count.
func WriteTable(w io.Writer, t types.Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No rows.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	rule := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		rule[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = truncate(cell(row[i]), maxCellWidth)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	noun := "rows"
	if len(t.Rows) == 1 {
		noun = "row"
	}
	_, err := fmt.Fprintf(w, "\n%s %s\n", humanize.Comma(int64(len(t.Rows))), noun)
	return err
}

// cell renders a scalar for text formats. nil becomes the empty string.
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	default:
		return fmt.Sprint(x)
	}
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
