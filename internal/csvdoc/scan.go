package csvdoc

import "strings"

// ScanResult describes the leading comment block of a document.
type ScanResult struct {
	// Metadata holds the trimmed comment lines, prefix included, in order.
	Metadata []string

	// Header is the comment line recognized as column names, prefix stripped.
	Header    string
	HasHeader bool

	// DataStart is the index of the first line that belongs to the table body
	// (or the table header when HasHeader is false).
	DataStart int
}

// Scan walks the comment lines at the top of a document and separates
// free-text metadata from an embedded header line.
//
// Scanning stops at the first line that is neither blank nor a comment, or
// right after a comment line that looks like a header.
func Scan(lines []string, opts Options) ScanResult {
	var res ScanResult

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, opts.CommentPrefix) {
			res.DataStart = i
			return res
		}

		if header, ok := headerCandidate(line, opts); ok {
			res.Header = header
			res.HasHeader = true
			res.DataStart = i + 1
			return res
		}

		res.Metadata = append(res.Metadata, line)
	}

	// Only comments and blank lines: there is no table body.
	res.DataStart = len(lines)
	return res
}

// headerCandidate reports whether the trimmed comment line is a header and
// returns its content without the comment prefix.
func headerCandidate(line string, opts Options) (string, bool) {
	if separatorCount(line) < opts.MinHeaderSeparators {
		return "", false
	}

	content := strings.TrimSpace(strings.TrimPrefix(line, opts.CommentPrefix))
	for _, part := range splitSeparators(content) {
		part = strings.TrimSpace(part)
		if part == "" || len(part) >= opts.MaxHeaderTokenLen || strings.Contains(part, ":") {
			return "", false
		}
	}
	return content, true
}

// separatorCount counts ';' and ',' in s.
func separatorCount(s string) int {
	return strings.Count(s, ";") + strings.Count(s, ",")
}

// splitSeparators splits s on every ';' and ',', keeping empty parts.
func splitSeparators(s string) []string {
	return strings.Split(strings.ReplaceAll(s, ";", ","), ",")
}
