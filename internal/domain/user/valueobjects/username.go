package valueobjects

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,31}$`)

var usernameFolder = cases.Fold()

// Username is stored case-folded so "Alice" and "alice" cannot both register.
type Username struct {
	value string
}

func NewUsername(value string) (*Username, error) {
	folded := usernameFolder.String(norm.NFKC.String(strings.TrimSpace(value)))
	if folded == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if !usernameRegex.MatchString(folded) {
		return nil, fmt.Errorf("username must be 3-32 letters, digits, dots, dashes or underscores")
	}
	return &Username{value: folded}, nil
}

func (u *Username) String() string {
	return u.value
}

// UsernameFromEmail derives a valid username candidate from an email local part.
func UsernameFromEmail(email *Email) string {
	var b strings.Builder
	for _, r := range strings.ToLower(email.LocalPart()) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	s := strings.TrimLeft(b.String(), "._-")
	for len(s) < 3 {
		s += "0"
	}
	if len(s) > 24 {
		s = s[:24]
	}
	return s
}
