package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxMemberNameLength matches the size of the name column
const MaxMemberNameLength = 255

// ValidateMemberName accepts a non-blank name of at most MaxMemberNameLength
// characters without control characters
func ValidateMemberName(fl validator.FieldLevel) bool {
	name := fl.Field().String()

	if strings.TrimSpace(name) == "" {
		return false
	}
	if utf8.RuneCountInString(name) > MaxMemberNameLength {
		return false
	}
	return strings.IndexFunc(name, unicode.IsControl) < 0
}
