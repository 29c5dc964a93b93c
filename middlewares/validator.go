package middlewares

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type enumValue interface{ Valid() bool }

var registerOnce sync.Once

// RegisterValidators adds the "enum" tag to gin's validator. It accepts
// any field whose type has a Valid() bool method (pointers included).
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("enum", validEnum)
	})
}

func validEnum(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return true
		}
		f = f.Elem()
	}
	if !f.CanInterface() {
		return false
	}
	e, ok := f.Interface().(enumValue)
	return ok && e.Valid()
}
