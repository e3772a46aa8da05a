package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CaseStyle selects how SanitizeName treats letter case.
type CaseStyle string

const (
	CaseKeep  CaseStyle = "keep"
	CaseLower CaseStyle = "lower"
	CaseTitle CaseStyle = "title"
)

const placeholder = '_'

const unsafeRunes = `/\:*?"<>|`

// SanitizeName produces a filesystem-safe filename from a proposed one.
// Input is NFC-normalized, unsafe characters become a single placeholder,
// runs of placeholders collapse, and leading/trailing placeholders and dots
// are trimmed from the stem. The case policy applies to the stem only; the
// extension is lowercased under CaseLower and left alone otherwise. Returns
// "" when nothing usable remains, so callers can fall through to their next
// naming candidate.
func SanitizeName(name string, style CaseStyle) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return ""
	}

	stem, ext := SplitExt(name)
	stem = collapsePlaceholders(replaceUnsafe(stem))
	stem = strings.Trim(stem, "_. ")
	if stem == "" {
		return ""
	}

	ext = collapsePlaceholders(replaceUnsafe(ext))
	if strings.Trim(ext, "_. ") == "" {
		ext = ""
	}
	switch style {
	case CaseLower:
		stem = strings.ToLower(stem)
		ext = strings.ToLower(ext)
	case CaseTitle:
		stem = cases.Title(language.Und).String(stem)
	}
	return stem + ext
}

// SplitExt separates a filename into stem and extension (with its dot).
// Dotfiles such as ".gitignore" are treated as all stem.
func SplitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}

// SanitizeToken converts a value into a lowercase machine token for category
// and audit keys. Letters are lowercased, digits and "-_" survive, any other
// rune becomes an underscore, and underscore runs collapse. Values with
// nothing usable come back as "unknown".
func SanitizeToken(value string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return placeholder
		}
	}, strings.TrimSpace(value))

	token := strings.Trim(collapsePlaceholders(mapped), "_-")
	if token == "" {
		return "unknown"
	}
	return token
}

// LooksLikeFileName reports whether a path segment resembles a filename
// rather than a directory: a short trailing extension of letters or digits
// after a dot, containing at least one letter. Classifiers sometimes return
// such a segment where a directory belongs.
func LooksLikeFileName(segment string) bool {
	ext := filepath.Ext(segment)
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	if strings.TrimSuffix(segment, ext) == "" {
		return false
	}
	hasLetter := false
	for _, r := range ext[1:] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return hasLetter
}

// IsCorruptedName reports whether a suggested name carries the signature of a
// truncated or malformed classifier response: path separators or other
// forbidden filesystem characters, control characters, or a trailing bracket,
// dot, or comma.
func IsCorruptedName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, unsafeRunes) {
		return true
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	switch trimmed[len(trimmed)-1] {
	case '{', '}', '[', ']', '(', ')', '.', ',':
		return true
	}
	return false
}

func replaceUnsafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune(placeholder)
		case strings.ContainsRune(unsafeRunes, r):
			b.WriteRune(placeholder)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapsePlaceholders(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if r == placeholder && prev == placeholder {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
