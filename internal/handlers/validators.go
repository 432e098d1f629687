package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/kopesha/lending-backend/internal/utils/phone"
)

// registerValidators installs custom binding validations on gin's engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return phone.IsValid(fl.Field().String())
	})
}
