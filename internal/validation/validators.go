package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/goalmate/amatta/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("list_status", validateListStatus); err != nil {
		panic(fmt.Sprintf("failed to register list_status validator: %v", err))
	}
}

// validateListStatus validates that a string is a valid ListStatus enum value
func validateListStatus(fl validator.FieldLevel) bool {
	switch models.ListStatus(fl.Field().String()) {
	case models.ListStatusActive, models.ListStatusCompleted:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateListStatus validates a ListStatus string value
func ValidateListStatus(value string) error {
	switch models.ListStatus(value) {
	case models.ListStatusActive, models.ListStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid list type: %s (must be 'uncompletion' or 'completion')", value)
	}
}
