package report

import (
	"strings"

	"github.com/beesaferoot/ams-store/model"
)

func positive(field string, id uint) error {
	if id == 0 {
		return &model.ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func notBlank(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &model.ValidationError{Field: field, Message: "must not be blank"}
	}
	return nil
}

func nonNegative(field string, n int) error {
	if n < 0 {
		return &model.ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}

func rentRange(min, max float64) error {
	switch {
	case min < 0:
		return &model.ValidationError{Field: "minRent", Message: "must not be negative"}
	case max < min:
		return &model.ValidationError{Field: "maxRent", Message: "must not be less than minRent"}
	}
	return nil
}

func firstInvalid(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
