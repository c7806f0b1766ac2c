package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the shared validator against request DTO tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

var zipRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

func IsValidZipCode(zip string) bool {
	return zipRe.MatchString(zip)
}
