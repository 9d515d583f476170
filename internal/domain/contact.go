package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
)

// DefaultContactGroup labels contacts imported without an explicit group.
const DefaultContactGroup = "Customers"

// defaultCountryPrefix is prepended to bare 10-digit local numbers.
const defaultCountryPrefix = "91"

// Contact is a message recipient. Contacts are read-only during dispatch.
type Contact struct {
	ID        string
	Name      string
	Phone     string
	Group     string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contact name is required", ErrValidation)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: contact phone is required", ErrValidation)
	}
	if c.Email != nil && strings.TrimSpace(*c.Email) != "" {
		if err := checkmail.ValidateFormat(strings.TrimSpace(*c.Email)); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrValidation, *c.Email)
		}
	}
	return nil
}

// HasUsablePhone reports whether the contact can receive a gateway send.
func (c *Contact) HasUsablePhone() bool {
	return c != nil && strings.TrimSpace(c.Phone) != ""
}

// NormalizePhone strips every non-digit character and prepends the default
// country prefix to bare 10-digit numbers. Returns an empty string when no
// digits remain.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return defaultCountryPrefix + digits
	}
	return digits
}
