package csvdoc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidCSV wraps failures of the underlying CSV reader.
var ErrInvalidCSV = errors.New("invalid csv")

// Table is the raw result of splitting the data block into named columns.
type Table struct {
	Fields    []string
	Rows      []map[string]string
	Delimiter rune
}

// ParseTable splits text into rows keyed by the column names found on its
// first record. delim forces the separator; zero detects it from the first
// non-blank line. Data lines starting with comment are skipped; zero disables
// that. The first record is always the header, even when it starts with
// comment, since a header recovered from a comment line keeps its prefix.
func ParseTable(text string, delim, comment rune) (*Table, error) {
	if delim == 0 {
		delim = DetectDelimiter(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	table := &Table{Delimiter: delim}

	header, err := readRecord(r)
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, err
	}
	table.Fields = uniqueFields(header)
	r.Comment = comment

	for {
		record, err := readRecord(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]string, len(table.Fields))
		for i, name := range table.Fields {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// readRecord returns the next record that is not a blank line. Lines made of
// delimiters only are records of empty cells and are kept.
func readRecord(r *csv.Reader) ([]string, error) {
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}
		if !isBlankRecord(record) {
			return record, nil
		}
	}
}

func isBlankRecord(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

// uniqueFields trims header names and suffixes repeats with _1, _2, ... so
// every column can be addressed by name.
func uniqueFields(header []string) []string {
	fields := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int)

	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		candidate := name
		for used[candidate] {
			next[name]++
			candidate = name + "_" + strconv.Itoa(next[name])
		}
		used[candidate] = true
		fields[i] = candidate
	}
	return fields
}

// DetectDelimiter picks ';' when the first non-blank line has more unquoted
// semicolons than commas, and ',' otherwise.
func DetectDelimiter(text string) rune {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		commas, semicolons := countUnquoted(line)
		if semicolons > commas {
			return ';'
		}
		return ','
	}
	return ','
}

// countUnquoted counts ',' and ';' outside double-quoted sections of line.
func countUnquoted(line string) (commas, semicolons int) {
	inQuotes := false
	for _, c := range line {
		switch c {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semicolons++
			}
		}
	}
	return commas, semicolons
}
