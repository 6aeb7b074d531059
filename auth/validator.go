package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateClaims rejects tokens whose identity would not be usable as a UserID.
func validateClaims(claims *CustomClaims) error {
	claims.UserID = strings.TrimSpace(claims.UserID)
	return validate.Struct(claims)
}
