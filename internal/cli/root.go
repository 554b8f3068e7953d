// Package cli implements the csvplot command line tool, which runs the
// upload parsing and plot pipeline against local files.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/csvplot/internal/core"
	"github.com/JonMunkholm/csvplot/internal/csvdoc"
	"github.com/JonMunkholm/csvplot/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. CSVPLOT_DELIMITER.
const EnvPrefix = "CSVPLOT"

const defaultMaxSize = 20 << 20

// Flag and configuration keys.
const (
	keyDelimiter     = "delimiter"
	keyCommentPrefix = "comment-prefix"
	keyMinSeparators = "min-header-separators"
	keyMaxTokenLen   = "max-header-token-len"
	keyEncoding      = "encoding"
	keyMaxSize       = "max-size"
	keyFormat        = "format"
	keyLogLevel      = "log-level"
)

// NewRootCommand builds the csvplot command tree. Each call gets its own
// viper instance so commands can be constructed repeatedly in tests.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "csvplot",
		Short:         "Inspect and plot measurement CSV files",
		Long:          `csvplot parses CSV exports with comment metadata, mixed decimal notation and legacy encodings, and prints their columns or chart series.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), v.GetString(keyLogLevel), "text"))
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "YAML config file with flag defaults")
	f.String(keyDelimiter, "auto", "field delimiter: auto, comma or semicolon")
	f.String(keyCommentPrefix, csvdoc.DefaultCommentPrefix, "prefix of metadata lines")
	f.Int(keyMinSeparators, csvdoc.DefaultMinHeaderSeparators, "separators a comment line needs to be a header")
	f.Int(keyMaxTokenLen, csvdoc.DefaultMaxHeaderTokenLen, "longest column name accepted in a comment header")
	f.String(keyEncoding, core.EncodingWindows1252, "fallback encoding for non UTF-8 input: windows-1252 or none")
	f.Int64(keyMaxSize, defaultMaxSize, "largest file accepted, in bytes")
	f.StringP(keyFormat, "o", "json", "output format: json or yaml")
	f.String(keyLogLevel, "warn", "log level: debug, info, warn or error")

	_ = v.BindPFlags(f)

	root.AddCommand(newInspectCommand(v), newPlotCommand(v))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// initConfig layers env vars and an optional config file under the flags.
// Precedence: flags > env > config file > defaults.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	return nil
}

// parseOptions assembles csvdoc options from the bound settings.
func parseOptions(v *viper.Viper) (csvdoc.Options, error) {
	delim, err := csvdoc.ParseDelimiter(v.GetString(keyDelimiter))
	if err != nil {
		return csvdoc.Options{}, err
	}
	opts := csvdoc.Options{
		Delimiter:           delim,
		CommentPrefix:       v.GetString(keyCommentPrefix),
		MinHeaderSeparators: v.GetInt(keyMinSeparators),
		MaxHeaderTokenLen:   v.GetInt(keyMaxTokenLen),
	}
	if err := opts.Validate(); err != nil {
		return csvdoc.Options{}, fmt.Errorf("invalid parse options: %w", err)
	}
	return opts, nil
}

// loadDocument reads and parses the CSV at path the same way an upload is
// handled: size limit, BOM stripping, fallback decoding, then parsing.
func loadDocument(v *viper.Viper, path string) (*csvdoc.Document, error) {
	opts, err := parseOptions(v)
	if err != nil {
		return nil, err
	}
	fallback, err := core.FallbackEncoding(v.GetString(keyEncoding))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	text, err := core.DecodeUpload(f, v.GetInt64(keyMaxSize), fallback)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s: %w", path, core.ErrEmptyFile)
	}

	doc, err := csvdoc.Parse(text, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	slog.Debug("document parsed",
		"file", path,
		"columns", len(doc.Columns),
		"rows", len(doc.Rows),
		"has_metadata", doc.HasMetadata,
	)
	return doc, nil
}
