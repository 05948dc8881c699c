package valueobjects

import (
	"fmt"
	"unicode"
)

// Password is a plain-text password that passed the strength policy. It never leaves
// the process except as a hash.
type Password struct {
	value string
}

func NewPassword(plain string) (*Password, error) {
	if len(plain) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters long")
	}
	// bcrypt ignores everything past 72 bytes
	if len(plain) > 72 {
		return nil, fmt.Errorf("password must not exceed 72 bytes")
	}

	var hasLetter, hasDigit bool
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return nil, fmt.Errorf("password must contain at least one letter and one digit")
	}

	return &Password{value: plain}, nil
}

func (p *Password) String() string {
	return p.value
}
