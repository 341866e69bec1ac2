// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Six hex digits exactly; categories render in charts, short forms are not accepted.
	hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

	// Category names: letters, digits, spaces, and ampersand (e.g. "Food & Dining").
	categoryNameRegex = regexp.MustCompile(`^[a-zA-Z0-9 &]+$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("category_name", validateCategoryName)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("role", validateRole)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateCategoryName(fl validator.FieldLevel) bool {
	return categoryNameRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "user", "read-only":
		return true
	}
	return false
}
