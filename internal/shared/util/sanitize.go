package util

import (
	"errors"
	"strings"
	"unicode"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// DocumentBaseName keeps letters, digits, spaces, dashes and underscores from a person's name
// and joins the words with underscores. Falls back to "resume" when nothing survives.
func DocumentBaseName(fullName string) string {
	var b strings.Builder
	for _, r := range fullName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	words := strings.Fields(b.String())
	if len(words) == 0 {
		return "resume"
	}
	return strings.Join(words, "_")
}
