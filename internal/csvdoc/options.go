package csvdoc

import "fmt"

// Default heuristic thresholds for telling an embedded header apart from
// free-text metadata in the leading comment block.
const (
	DefaultCommentPrefix       = "#"
	DefaultMinHeaderSeparators = 2
	DefaultMaxHeaderTokenLen   = 50
)

// Options controls document parsing. The zero value is not useful; start from
// DefaultOptions and override fields.
type Options struct {
	// Delimiter forces the field separator. Zero auto-detects ',' or ';'.
	Delimiter rune

	// CommentPrefix marks metadata/header lines at the top of the document.
	CommentPrefix string

	// MinHeaderSeparators is the number of ';' or ',' a comment line needs
	// before it is considered as a header candidate.
	MinHeaderSeparators int

	// MaxHeaderTokenLen is the exclusive upper bound on the length of each
	// column name in a comment header.
	MaxHeaderTokenLen int
}

// DefaultOptions returns the options used by the upload pipeline.
func DefaultOptions() Options {
	return Options{
		CommentPrefix:       DefaultCommentPrefix,
		MinHeaderSeparators: DefaultMinHeaderSeparators,
		MaxHeaderTokenLen:   DefaultMaxHeaderTokenLen,
	}
}

// Validate checks that opts can drive a parse.
func (o Options) Validate() error {
	switch o.Delimiter {
	case 0, ',', ';':
	default:
		return fmt.Errorf("unsupported delimiter %q: must be ',' or ';'", o.Delimiter)
	}
	if o.CommentPrefix == "" {
		return fmt.Errorf("comment prefix must not be empty")
	}
	if o.MinHeaderSeparators < 1 {
		return fmt.Errorf("min header separators must be positive")
	}
	if o.MaxHeaderTokenLen < 1 {
		return fmt.Errorf("max header token length must be positive")
	}
	return nil
}

// ParseDelimiter converts a configuration string to a delimiter rune.
// Empty and "auto" select auto-detection.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", "auto":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	}
	return 0, fmt.Errorf("unsupported delimiter %q: use auto, comma or semicolon", s)
}
