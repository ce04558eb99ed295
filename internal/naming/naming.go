// Package naming turns free-form flag names into Go identifiers and labels.
package naming

import (
	"go/token"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cmmoran/flaggen/internal/model"
)

// Placeholder is returned by Sanitize for empty input.
const Placeholder = "_"

// Sanitize converts text into a valid identifier. Runes that are neither
// letters, digits nor underscores become underscores, a leading digit gets an
// underscore prefix and runs of underscores collapse to one.
func Sanitize(text string) string {
	if text == "" {
		return Placeholder
	}

	var b strings.Builder
	b.Grow(len(text) + 1)
	for i, r := range text {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return out
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// SplitWords returns the runs of letters and digits in text, in order.
// Every other rune separates words and is dropped.
func SplitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})
}

// ToCamelCase lowers the first word and capitalizes the rest.
func ToCamelCase(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lowerWord(w))
			continue
		}
		b.WriteString(capitalizeWord(w))
	}
	return b.String()
}

// ToPascalCase capitalizes every word.
func ToPascalCase(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalizeWord(w))
	}
	return b.String()
}

// capitalizeWord uppercases the first rune and lowers the rest. Words that
// already carry interior humps (useFastAPI) keep them.
func capitalizeWord(w string) string {
	runes := []rune(w)
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	if !hasHumps(w) {
		for i := 1; i < len(runes); i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}

func lowerWord(w string) string {
	if hasHumps(w) {
		return model.LowerFirst(w)
	}
	return strings.ToLower(w)
}

// hasHumps reports whether w mixes cases with a lower-to-upper transition.
func hasHumps(w string) bool {
	prevLower := false
	for _, r := range w {
		if prevLower && unicode.IsUpper(r) {
			return true
		}
		prevLower = unicode.IsLower(r)
	}
	return false
}

// Transform renders a flag name in the given case style. Verbatim returns the
// name untouched.
func Transform(name string, style model.CaseStyle) string {
	switch style {
	case model.CaseCamel:
		return ToCamelCase(SplitWords(name))
	case model.CasePascal:
		return ToPascalCase(SplitWords(name))
	case model.CaseVerbatim:
		return name
	default:
		panic("naming: unhandled case style " + style.String())
	}
}

// Identifier derives the case identifier for a flag name. Go keywords and
// predeclared names get a trailing underscore so the generated code compiles.
func Identifier(name string, style model.CaseStyle) string {
	return Escape(Sanitize(Transform(name, style)))
}

// Escape appends an underscore to Go keywords, predeclared identifiers and
// the blank identifier. Sanitize never yields "__", so the escaped blank
// identifier cannot collide with another sanitized name.
func Escape(id string) string {
	if id == "_" || token.IsKeyword(id) || types.Universe.Lookup(id) != nil {
		return id + "_"
	}
	return id
}

// UpperFirst uppercases the first rune of s.
func UpperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Exported reports whether id starts with an upper case letter.
func Exported(id string) bool {
	return token.IsExported(id)
}

// Label derives a display label from an identifier: a space is inserted at each
// lower-to-upper transition and the first rune is capitalized.
func Label(ident string) string {
	var b strings.Builder
	b.Grow(len(ident) + 4)
	prevLower := false
	first := true
	for _, r := range ident {
		if first {
			b.WriteRune(unicode.ToUpper(r))
			first = false
		} else {
			if prevLower && unicode.IsUpper(r) {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
		}
		prevLower = unicode.IsLower(r)
	}
	return b.String()
}
