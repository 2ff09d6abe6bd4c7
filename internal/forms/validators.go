package forms

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired     = "This field is required."
	MsgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgImageTooBig  = "The uploaded image is too large."
)

// ValidationError is returned by field validators.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateNotEmpty rejects text that is empty once whitespace is trimmed.
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Message: MsgRequired}
	}
	return nil
}

func notBlank(fl validator.FieldLevel) bool {
	return ValidateNotEmpty(fl.Field().String()) == nil
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
	}
}
