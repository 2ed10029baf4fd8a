package dto

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("decimal", validateDecimal)
		_ = v.RegisterValidation("trimmed", validateTrimmed)
	}
}

// validateDecimal accepts anything shopspring/decimal can parse exactly.
func validateDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

// validateTrimmed rejects leading or trailing whitespace.
func validateTrimmed(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.TrimSpace(s) == s
}
