package core

// streaming.go turns uploaded bytes into text the CSV parser can work with.
//
//   - WrapForStreaming strips a leading UTF-8 BOM, as written by Excel on Windows
//   - DecodeUpload enforces the size limit and repairs files that are not UTF-8,
//     either by decoding them as Windows-1252 or by replacing invalid bytes with '?'

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrFileTooLarge is returned when an upload exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// Fallback encoding names accepted by FallbackEncoding.
const (
	EncodingWindows1252 = "windows-1252"
	EncodingNone        = "none"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FallbackEncoding resolves a configured fallback encoding name. A nil
// encoding means invalid bytes are replaced instead of decoded.
func FallbackEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252, nil
	case EncodingNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("encoding error: unsupported fallback encoding %q", name)
}

// WrapForStreaming returns a reader that yields r without a leading UTF-8 BOM.
func WrapForStreaming(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// DecodeUpload reads at most maxSize bytes from r and returns them as UTF-8
// text. Input that is not valid UTF-8 is decoded with fallback, or sanitized
// when fallback is nil. A non-positive maxSize disables the limit.
func DecodeUpload(r io.Reader, maxSize int64, fallback encoding.Encoding) (string, error) {
	src := WrapForStreaming(r)
	if maxSize > 0 {
		src = io.LimitReader(src, maxSize+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return "", ErrFileTooLarge
	}

	if utf8.Valid(data) {
		return string(data), nil
	}
	if fallback != nil {
		decoded, _, err := transform.Bytes(fallback.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("encoding error: %w", err)
		}
		return string(decoded), nil
	}
	return string(sanitizeUTF8(data)), nil
}

// sanitizeUTF8 replaces every byte that is not part of a valid UTF-8
// sequence with '?'. The output is never longer than the input.
func sanitizeUTF8(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
		} else {
			out = append(out, data[:size]...)
		}
		data = data[size:]
	}
	return out
}
