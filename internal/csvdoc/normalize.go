package csvdoc

// normalize.go converts raw cell text into numbers where the text looks numeric.
//
// Instruments and spreadsheets export numbers in both US ("1,234.56") and
// European ("1.234,56") notation, often mixed within one file. The rules below
// decide per cell which separator is the decimal point using only the shape of
// the text; there is no locale detection.
//
//   - both '.' and ',' present: the last one is the decimal point
//   - several dots, no commas: dots are thousands separators
//   - one dot, no commas: dot is the decimal point
//   - several commas, no dots: commas are thousands separators
//   - one comma, no dots: decimal point if at most two characters follow it,
//     thousands separator otherwise

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// numericShape matches text that may hold a number: digits, sign and separators only.
var numericShape = regexp.MustCompile(`^[-0-9.,]+$`)

// maxDecimalDigitsAfterComma is the longest tail after a lone comma that is
// still read as decimals ("1000,50"). Longer tails are thousands groups ("1,000").
const maxDecimalDigitsAfterComma = 2

// Value is a single normalized cell: either a number or a trimmed string.
type Value struct {
	Num     float64
	Str     string
	Numeric bool
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{Num: f, Numeric: true}
}

// Text returns a string Value.
func Text(s string) Value {
	return Value{Str: s}
}

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	return v.Num, v.Numeric
}

// IsEmpty reports whether the cell is an empty string.
func (v Value) IsEmpty() bool {
	return !v.Numeric && v.Str == ""
}

// Interface returns the cell as float64 or string.
func (v Value) Interface() any {
	if v.Numeric {
		return v.Num
	}
	return v.Str
}

// String renders the cell for display.
func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes the cell as a YAML scalar of its kind.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}

// Normalize classifies raw and converts it to a number when its shape allows.
// Text that is not numeric comes back trimmed but otherwise unchanged.
func Normalize(raw string) Value {
	value := strings.TrimSpace(raw)
	if value == "" || !numericShape.MatchString(value) {
		return Text(value)
	}

	clean := cleanSeparators(value)

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return Text(value)
	}
	return Number(f)
}

// cleanSeparators rewrites value so that '.' is the only decimal separator
// and thousands separators are gone.
func cleanSeparators(value string) string {
	dotCount := strings.Count(value, ".")
	commaCount := strings.Count(value, ",")

	switch {
	case dotCount > 0 && commaCount > 0:
		if strings.LastIndex(value, ",") > strings.LastIndex(value, ".") {
			// European: 1.234,56
			value = strings.ReplaceAll(value, ".", "")
			return strings.Replace(value, ",", ".", 1)
		}
		// US: 1,234.56
		return strings.ReplaceAll(value, ",", "")

	case dotCount > 1:
		return strings.ReplaceAll(value, ".", "")

	case commaCount > 1:
		return strings.ReplaceAll(value, ",", "")

	case commaCount == 1:
		_, tail, _ := strings.Cut(value, ",")
		if len(tail) <= maxDecimalDigitsAfterComma {
			return strings.Replace(value, ",", ".", 1)
		}
		return strings.Replace(value, ",", "", 1)
	}

	return value
}
