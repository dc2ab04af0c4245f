// Package textfix repairs Cyrillic text that was decoded with the wrong
// single-byte code page ("mojibake"). The repair is conservative: a string is
// only replaced when the re-decoded candidate is unambiguously valid Cyrillic
// UTF-8.
package textfix

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// cp1252Punct holds the glyphs Windows-1252 assigns to bytes 0x80-0x9F.
const cp1252Punct = "€‚ƒ„…†‡ˆ‰Š‹ŒŽ‘’“”•–—˜™š›œžŸ"

// misread describes one way UTF-8 Cyrillic gets garbled.
type misread struct {
	leads   string
	cm      *charmap.Charmap
	latin1  bool
	follows func(r rune) bool
}

var misreads = []misread{
	{
		// UTF-8 read as Windows-1252 or Latin-1: "Привет" -> "ÐŸÑ€Ð¸Ð²ÐµÑ‚".
		leads:  "ÐÑ",
		cm:     charmap.Windows1252,
		latin1: true,
		follows: func(r rune) bool {
			return (r >= 0x80 && r <= 0xBF) || strings.ContainsRune(cp1252Punct, r)
		},
	},
	{
		// UTF-8 read as Windows-1251: "Привет" -> "РџСЂРёРІРµС‚".
		leads: "РС",
		cm:    charmap.Windows1251,
		follows: func(r rune) bool {
			b, ok := charmap.Windows1251.EncodeRune(r)
			return ok && b >= 0x80 && b <= 0xBF
		},
	},
}

// FixMojibake returns s with mis-decoded Cyrillic repaired. If no detector
// matches, or the candidate is not clean Cyrillic UTF-8, s is returned
// unchanged.
func FixMojibake(s string) string {
	if s == "" || isASCII(s) {
		return s
	}
	for _, m := range misreads {
		if !m.detect(s) {
			continue
		}
		candidate, ok := m.reencode(s)
		if ok && acceptable(s, candidate) {
			return candidate
		}
	}
	return s
}

func (m misread) detect(s string) bool {
	prevLead := false
	for _, r := range s {
		if prevLead && m.follows(r) {
			return true
		}
		prevLead = strings.ContainsRune(m.leads, r)
	}
	return false
}

// reencode maps every rune back to the byte the wrong code page produced it
// from, yielding the original UTF-8 byte stream.
func (m misread) reencode(s string) (string, bool) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := m.cm.EncodeRune(r); ok {
			buf = append(buf, b)
			continue
		}
		if m.latin1 && r <= 0xFF {
			buf = append(buf, byte(r))
			continue
		}
		return "", false
	}
	return string(buf), true
}

func acceptable(original, candidate string) bool {
	if candidate == original || !utf8.ValidString(candidate) {
		return false
	}
	if strings.ContainsRune(candidate, utf8.RuneError) {
		return false
	}
	outside := map[rune]struct{}{}
	for _, r := range original {
		if !unicode.Is(unicode.Cyrillic, r) {
			outside[r] = struct{}{}
		}
	}
	letters := 0
	for _, r := range candidate {
		if isModernCyrillic(r) {
			letters++
			continue
		}
		if _, ok := outside[r]; ok || r < utf8.RuneSelf {
			continue
		}
		return false
	}
	// One recovered letter is indistinguishable from real text such as "Р«".
	return letters >= 2
}

// isModernCyrillic reports whether r is in U+0400-U+045F, the block used by
// Russian and the other modern Cyrillic alphabets.
func isModernCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x045F
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// FixStrings applies FixMojibake to every exported string field reachable
// from ptr (nested structs, slices and pointers included) and reports how
// many values changed. ptr must be a non-nil pointer.
func FixStrings(ptr any) int {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0
	}
	return fixValue(v.Elem())
}

func fixValue(v reflect.Value) int {
	switch v.Kind() {
	case reflect.String:
		if !v.CanSet() {
			return 0
		}
		fixed := FixMojibake(v.String())
		if fixed == v.String() {
			return 0
		}
		v.SetString(fixed)
		return 1
	case reflect.Pointer:
		if v.IsNil() {
			return 0
		}
		return fixValue(v.Elem())
	case reflect.Struct:
		n := 0
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				n += fixValue(v.Field(i))
			}
		}
		return n
	case reflect.Slice, reflect.Array:
		n := 0
		for i := 0; i < v.Len(); i++ {
			n += fixValue(v.Index(i))
		}
		return n
	default:
		return 0
	}
}
