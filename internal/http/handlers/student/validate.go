package student

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-service/internal/types"
)

// validate is shared by all handlers; *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// A zero Date counts as missing for "required".
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(types.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, types.Date{})

	return v
}
