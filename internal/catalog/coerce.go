package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NotAvailable is shown for financial fields that are missing or carry no number.
const NotAvailable = "N/A"

// asciiDigits rewrites Arabic-Indic and Eastern Arabic-Indic digits and the
// Arabic decimal separator to ASCII.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r == '٫':
			return '.'
		}
		return r
	}, s)
}

// ParseNumeric extracts a number from a formatted string the way the site
// always has: every character except digits and '.' is discarded and the
// longest leading decimal is parsed ("15%" is 15, "$5,000,000" is 5000000).
func ParseNumeric(s string) (float64, bool) {
	s = asciiDigits(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	kept := b.String()

	end, seenDot, seenDigit := 0, false, false
	for i := 0; i < len(kept); i++ {
		c := kept[i]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			seenDigit = true
		}
		end = i + 1
	}
	if !seenDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(kept[:end], "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func hasDigit(s string) bool {
	return strings.IndexFunc(asciiDigits(s), unicode.IsDigit) >= 0
}

// rawScalar decodes a JSON number or string. ok is false for null, missing
// and non-scalar values.
func rawScalar(raw json.RawMessage) (num float64, str string, isNum, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, "", false, false
	}
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, "", false, false
		}
		return 0, strings.TrimSpace(str), false, true
	case '{', '[', 't', 'f':
		return 0, "", false, false
	}
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, "", false, false
	}
	return num, "", true, true
}

// coerceAmount returns a non-negative finite amount, 0 when the raw value is
// missing or unusable.
func coerceAmount(raw json.RawMessage) float64 {
	v, ok := optionalAmount(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}

func optionalAmount(raw json.RawMessage) (float64, bool) {
	num, str, isNum, ok := rawScalar(raw)
	if !ok {
		return 0, false
	}
	if !isNum {
		negative := strings.HasPrefix(str, "-")
		v, parsed := ParseNumeric(str)
		if !parsed {
			return 0, false
		}
		if negative {
			v = -v
		}
		num = v
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

func coerceOptionalAmount(raw json.RawMessage) *float64 {
	v, ok := optionalAmount(raw)
	if !ok {
		return nil
	}
	return &v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// coerceRate renders a rate of return as a percent string, or NotAvailable.
func coerceRate(raw json.RawMessage) string {
	num, str, isNum, ok := rawScalar(raw)
	switch {
	case !ok:
		return NotAvailable
	case isNum:
		if math.IsNaN(num) || math.IsInf(num, 0) {
			return NotAvailable
		}
		return formatNumber(num) + "%"
	case !hasDigit(str):
		return NotAvailable
	case strings.ContainsAny(str, "%٪"):
		return str
	}
	if _, err := strconv.ParseFloat(str, 64); err == nil {
		return str + "%"
	}
	return str
}

// coercePayback renders a payback period, or NotAvailable.
func coercePayback(raw json.RawMessage) string {
	num, str, isNum, ok := rawScalar(raw)
	switch {
	case !ok:
		return NotAvailable
	case isNum:
		if math.IsNaN(num) || math.IsInf(num, 0) || num < 0 {
			return NotAvailable
		}
		return formatNumber(num) + " years"
	case !hasDigit(str):
		return NotAvailable
	}
	return str
}

// coerceID accepts a string or integral number identifier.
func coerceID(raw json.RawMessage) (string, bool) {
	num, str, isNum, ok := rawScalar(raw)
	if !ok {
		return "", false
	}
	if isNum {
		if num != math.Trunc(num) || num < 0 {
			return "", false
		}
		str = strconv.FormatFloat(num, 'f', 0, 64)
	}
	if !IsURLSafe(str) {
		return "", false
	}
	return str, true
}

// CoerceInt reads an integer given as a JSON number or numeric string; anything
// else is 0.
func CoerceInt(raw json.RawMessage) int {
	num, str, isNum, ok := rawScalar(raw)
	if !ok {
		return 0
	}
	if !isNum {
		n, err := strconv.Atoi(strings.TrimSpace(asciiDigits(str)))
		if err != nil {
			return 0
		}
		return n
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0
	}
	return int(num)
}
