package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameTagRe = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterValidators installs the custom binding tags on gin's
// validator engine. Call once before routes are served (or in test
// setup for handlers that bind these tags).
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameTagRe.MatchString(fl.Field().String())
		})
	}
}
