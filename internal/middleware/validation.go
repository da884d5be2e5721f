package middleware

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medtrack/patient-api/internal/model"
)

// RegisterValidators installs the wire-format validators on gin's binding
// engine. Call once before the first request is bound.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	must(v.RegisterValidation("wiretime", formatValidator(model.DateTimeWireFormat)))
	must(v.RegisterValidation("wiredate", formatValidator(model.DateWireFormat)))

	// Report json field names in validation errors, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

func formatValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.ParseInLocation(layout, raw, time.Local)
		return err == nil
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
