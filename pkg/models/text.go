package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"
)

type Locale string

const (
	LocaleEn Locale = "en"
	LocaleAr Locale = "ar"
)

// ParseLocale maps a request value onto a supported locale, using def when
// the value is empty or unknown.
func ParseLocale(s string, def Locale) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ar", "ar-eg", "ar-sa", "ar-ae", "ar-qa":
		return LocaleAr
	case "en", "en-us", "en-gb":
		return LocaleEn
	}
	return def
}

// Text is a bilingual display string.
type Text struct {
	En string `json:"en,omitempty"`
	Ar string `json:"ar,omitempty"`
}

// In returns the text in the requested locale, falling back to the other
// language when that one is empty.
func (t Text) In(l Locale) string {
	if l == LocaleAr {
		if t.Ar != "" {
			return t.Ar
		}
		return t.En
	}
	if t.En != "" {
		return t.En
	}
	return t.Ar
}

func (t Text) IsZero() bool {
	return strings.TrimSpace(t.En) == "" && strings.TrimSpace(t.Ar) == ""
}

// LooseText is the raw shape of a text field in the static data files: either
// a bare string or an {"en": ..., "ar": ...} object.
type LooseText struct {
	Plain    string
	En       string
	Ar       string
	IsObject bool
}

func (t *LooseText) UnmarshalJSON(b []byte) error {
	*t = LooseText{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t.Plain = strings.TrimSpace(s)
	case '{':
		var obj struct {
			En json.RawMessage `json:"en"`
			Ar json.RawMessage `json:"ar"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		t.IsObject = true
		t.En = scalarText(obj.En)
		t.Ar = scalarText(obj.Ar)
	default:
		t.Plain = scalarText(b)
	}
	return nil
}

// scalarText renders a JSON string or number as text. Booleans, arrays,
// objects and null carry no usable text.
func scalarText(b json.RawMessage) string {
	var s string
	if json.Unmarshal(b, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(b, &n) == nil {
		return n.String()
	}
	return ""
}

func (t LooseText) MarshalJSON() ([]byte, error) {
	if t.IsObject {
		return json.Marshal(Text{En: t.En, Ar: t.Ar})
	}
	return json.Marshal(t.Plain)
}

func (t LooseText) IsZero() bool {
	return t.Plain == "" && t.En == "" && t.Ar == ""
}

// Text converts the raw value into a bilingual Text. A bare string is placed
// in the Arabic slot when it is written in Arabic script, otherwise in the
// English slot.
func (t LooseText) Text() Text {
	if t.IsObject {
		return Text{En: t.En, Ar: t.Ar}
	}
	if t.Plain == "" {
		return Text{}
	}
	if IsArabic(t.Plain) {
		return Text{Ar: t.Plain}
	}
	return Text{En: t.Plain}
}

// IsArabic reports whether the first letter in s belongs to the Arabic script.
func IsArabic(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return unicode.Is(unicode.Arabic, r)
		}
	}
	return false
}
