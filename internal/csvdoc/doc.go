// Package csvdoc turns the raw text of an uploaded CSV file into a typed table.
//
// Files exported by lab instruments and spreadsheets rarely follow one dialect.
// This package handles three recurring variations:
//
//   - Free-text provenance written as '#' comment lines before the table,
//     sometimes with the real column header hidden among them.
//   - Comma or semicolon field separators, with optional double quoting.
//   - US ("1,234.56") and European ("1.234,56") number notation.
//
// The pipeline is [Scan] (comment block), [ParseTable] (rows and columns) and
// [Normalize] (per cell), composed by [Parse]:
//
//	doc, err := csvdoc.Parse(text, csvdoc.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, row := range doc.Rows {
//	    if f, ok := row["Freq"].Float(); ok {
//	        // ...
//	    }
//	}
//
// Everything here is a pure function of its input. Nothing is cached between
// calls, so concurrent parses of different inputs need no coordination.
package csvdoc
