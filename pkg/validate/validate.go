// Package validate collects field violations for request DTOs.
//
// Each request type owns a Validate method that runs a Checker over its
// fields; violations keep the order in which the checks were written.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"agri/pkg/apperr"
)

type Checker struct {
	violations []apperr.FieldError
}

func New() *Checker { return &Checker{} }

func (c *Checker) Add(field, message string) *Checker {
	c.violations = append(c.violations, apperr.FieldError{Field: field, Message: message})
	return c
}

// Check records msg against field when ok is false.
func (c *Checker) Check(ok bool, field, msg string) *Checker {
	if !ok {
		return c.Add(field, msg)
	}
	return c
}

func (c *Checker) Required(field, value string) *Checker {
	return c.Check(strings.TrimSpace(value) != "", field, "must not be blank")
}

// MaxLen counts runes, not bytes.
func (c *Checker) MaxLen(field, value string, max int) *Checker {
	return c.Check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("length must be at most %d", max))
}

func (c *Checker) MinInt(field string, value, min int) *Checker {
	return c.Check(value >= min, field, fmt.Sprintf("must be at least %d", min))
}

func (c *Checker) Between(field string, value, min, max int) *Checker {
	return c.Check(value >= min && value <= max, field, fmt.Sprintf("must be between %d and %d", min, max))
}

func (c *Checker) MinDecimal(field string, value, min decimal.Decimal) *Checker {
	return c.Check(value.GreaterThanOrEqual(min), field, "must be at least "+min.String())
}

// Email accepts an empty value; pair it with Required when the field is mandatory.
func (c *Checker) Email(field, value string) *Checker {
	if value == "" {
		return c
	}
	addr, err := mail.ParseAddress(value)
	return c.Check(err == nil && addr.Address == value, field, "must be a well-formed email address")
}

func (c *Checker) OneOf(field, value string, allowed ...string) *Checker {
	for _, a := range allowed {
		if value == a {
			return c
		}
	}
	return c.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

// Merge appends the violations of another checker under a field prefix.
func (c *Checker) Merge(prefix string, other *Checker) *Checker {
	for _, v := range other.violations {
		c.Add(prefix+"."+v.Field, v.Message)
	}
	return c
}

func (c *Checker) Valid() bool { return len(c.violations) == 0 }

func (c *Checker) Violations() []apperr.FieldError { return c.violations }

// Err returns nil when nothing was violated.
func (c *Checker) Err() error {
	if c.Valid() {
		return nil
	}
	return apperr.Validation(c.violations)
}
