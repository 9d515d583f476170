package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTemplateCategory labels templates saved without a category.
const DefaultTemplateCategory = "General"

// Template is a reusable message body managed independently of campaigns.
type Template struct {
	ID        string
	Title     string
	Body      string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Template) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: template title is required", ErrValidation)
	}
	if strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("%w: template body is required", ErrValidation)
	}
	return nil
}
