// Package validation holds the field-level rules shared by signup and
// the user/title/review services. Every rule is a pure function over its
// input plus, where uniqueness matters, a caller-supplied store lookup;
// failures come back as a Violation naming the offending field.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	UsernameMaxLen = 150
	EmailMaxLen    = 254

	SlugMaxLen = 50

	ScoreMin = 1
	ScoreMax = 10
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Violation is a single failed rule. It maps to HTTP 400 with the field
// name preserved so clients can attach the message to the right input.
type Violation struct {
	Field   string
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Username checks format and the reserved value "me". Uniqueness is a
// separate store-side concern handled by the services.
func Username(s string) error {
	if s == "" || len(s) > UsernameMaxLen || !usernameRe.MatchString(s) {
		return &Violation{Field: "username", Message: "invalid characters in username"}
	}
	if strings.EqualFold(s, "me") {
		return &Violation{Field: "username", Message: `username "me" is reserved`}
	}
	return nil
}

// Email checks syntactic validity and length.
func Email(s string) error {
	if s == "" || len(s) > EmailMaxLen {
		return &Violation{Field: "email", Message: "invalid email address"}
	}
	addr, err := mail.ParseAddress(s)
	// mail.ParseAddress accepts the display-name form; only the bare
	// address counts as valid input here.
	if err != nil || addr.Address != s {
		return &Violation{Field: "email", Message: "invalid email address"}
	}
	return nil
}

// Slug checks the URL identifier used by categories and genres.
func Slug(s string) error {
	if s == "" || len(s) > SlugMaxLen || !slugRe.MatchString(s) {
		return &Violation{Field: "slug", Message: "invalid slug"}
	}
	return nil
}

// Score accepts integers on the 10-point scale only.
func Score(n int) error {
	if n < ScoreMin || n > ScoreMax {
		return &Violation{Field: "score", Message: "score must be between 1 and 10"}
	}
	return nil
}

// Year rejects years after the current calendar year at call time.
func Year(y int) error {
	if y > time.Now().Year() {
		return &Violation{Field: "year", Message: "year cannot be in the future"}
	}
	return nil
}
