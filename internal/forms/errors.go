package forms

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors collects errors not tied to a single input.
const NonFieldErrors = "__all__"

// Errors maps a form field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Get(field string) []string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

var tagMessages = map[string]string{
	"notblank": MsgRequired,
	"required": MsgRequired,
}

// FromBinding turns a gin binding error into field errors.
func FromBinding(err error) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, err.Error())
		return errs
	}

	for _, fe := range verrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "Enter a valid value."
		}
		errs.Add(strings.ToLower(fe.Field()), msg)
	}
	return errs
}
