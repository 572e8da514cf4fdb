package types

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance. It is safe for
// concurrent use and caches struct metadata, so it is built only once.
//
// Two things are registered on top of validator.New():
//   - field names in errors come from the json tag ("name", not "Name");
//   - Optional[T] fields are unwrapped to *T, nil when absent or null, so
//     "omitnil" skips them and every other rule sees the plain value.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		v.RegisterCustomTypeFunc(optionalValue[string], Optional[string]{})
		v.RegisterCustomTypeFunc(optionalValue[int], Optional[int]{})
		v.RegisterCustomTypeFunc(optionalValue[bool], Optional[bool]{})
		v.RegisterCustomTypeFunc(optionalValue[Priority], Optional[Priority]{})
		v.RegisterCustomTypeFunc(optionalValue[Category], Optional[Category]{})

		validate = v
	})
	return validate
}

// Validate checks the validate:"..." tags on v. The returned error, if
// any, is a validator.ValidationErrors.
func Validate(v any) error {
	return Validator().Struct(v)
}

func optionalValue[T any](field reflect.Value) any {
	o, ok := field.Interface().(Optional[T])
	if !ok || !o.Present() {
		return (*T)(nil)
	}
	value := o.Value
	return &value
}
