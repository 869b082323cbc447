package ident

import (
	"errors"
	"strings"
)

// ErrEmpty is returned when a title has nothing to sanitize
var ErrEmpty = errors.New("job title must not be empty")

// Sanitize replaces every character outside [A-Za-z0-9_] with an underscore.
// Each rune is replaced by exactly one underscore.
func Sanitize(title string) (string, error) {
	if title == "" {
		return "", ErrEmpty
	}

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String(), nil
}

// Section builds a fragment name: <identifier>_<section>
func Section(identifier, section string) string {
	return identifier + "_" + section
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
