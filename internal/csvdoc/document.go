package csvdoc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Row maps column names to normalized cell values.
type Row map[string]Value

// Document is a parsed CSV file: its columns in header order, typed rows and
// any free-text metadata found in the leading comment block.
type Document struct {
	Columns     []string `json:"columns"`
	Rows        []Row    `json:"rows"`
	Metadata    []string `json:"metadata"`
	HasMetadata bool     `json:"hasMetadata"`
}

// Column returns the values of name in row order and whether the column exists.
func (d *Document) Column(name string) ([]Value, bool) {
	if !d.HasColumn(name) {
		return nil, false
	}
	values := make([]Value, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[name]
	}
	return values, true
}

// HasColumn reports whether name is one of the document's columns.
func (d *Document) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Head returns at most n rows from the start of the document.
func (d *Document) Head(n int) []Row {
	if n < 0 || n >= len(d.Rows) {
		return d.Rows
	}
	return d.Rows[:n]
}

// Parse turns raw file text into a Document.
//
// The leading comment block is scanned for metadata and an embedded header;
// the remaining text is split into columns with an auto-detected (or forced)
// delimiter and every cell is normalized. Empty input yields an empty
// Document. Parse fails on invalid opts and on a table the CSV reader cannot
// split.
func Parse(text string, opts Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parse options: %w", err)
	}

	doc := &Document{Columns: []string{}, Rows: []Row{}}
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}

	lines := strings.Split(text, "\n")
	scan := Scan(lines, opts)

	if len(scan.Metadata) > 0 {
		doc.Metadata = scan.Metadata
		doc.HasMetadata = true
	}

	table, err := ParseTable(dataText(lines, scan), opts.Delimiter, commentRune(opts.CommentPrefix))
	if err != nil {
		return nil, err
	}

	if table.Fields != nil {
		doc.Columns = table.Fields
	}
	for _, raw := range table.Rows {
		row := make(Row, len(raw))
		for name, cell := range raw {
			row[name] = Normalize(cell)
		}
		doc.Rows = append(doc.Rows, row)
	}

	return doc, nil
}

// dataText rebuilds the table text: the recovered header (if any) followed by
// every line from the data start.
func dataText(lines []string, scan ScanResult) string {
	body := strings.Join(lines[scan.DataStart:], "\n")
	if scan.HasHeader {
		return scan.Header + "\n" + body
	}
	return body
}

// commentRune returns prefix as a rune when it is a single character, and
// zero (no comment skipping) otherwise.
func commentRune(prefix string) rune {
	r, size := utf8.DecodeRuneInString(prefix)
	if size == 0 || size != len(prefix) || r == utf8.RuneError {
		return 0
	}
	return r
}
