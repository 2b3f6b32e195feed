package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
)

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func notBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "must not be blank")
	}
	return nil
}

func maxLen(field, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return invalid(field, "size must be at most %d, got %d", max, n)
	}
	return nil
}

// required combines notBlank and maxLen, the most common pairing.
func required(field, value string, max int) error {
	if err := notBlank(field, value); err != nil {
		return err
	}
	return maxLen(field, value, max)
}

func nonNegative[N int | float64](field string, value N) error {
	if value < 0 {
		return invalid(field, "must be greater than or equal to 0")
	}
	return nil
}

func oneOf[T ~string](field string, value T, allowed []T) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(field, "unsupported value %q", string(value))
}

func email(field, value string) error {
	if err := required(field, value, 100); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return invalid(field, "must be a well-formed email address")
	}
	return nil
}

func reference(field string, id uint) error {
	if id == 0 {
		return invalid(field, "must reference an existing record")
	}
	return nil
}

func date(field string, d datatypes.Date) error {
	if time.Time(d).IsZero() {
		return invalid(field, "must not be null")
	}
	return nil
}

// firstError returns the first non-nil error in checks.
func firstError(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
