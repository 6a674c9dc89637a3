package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/galvani/pkg/submodel"
)

var validate = newValidator()

// newValidator reports fields by their YAML names and knows the "domain"
// tag used by catalog.Spec.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("domain", func(fl validator.FieldLevel) bool {
		return submodel.Domain(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// describe turns a field error into the message a model author sees, e.g.
// "mesh[2]: npts must not be negative".
func describe(fe validator.FieldError) error {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	at, field := path, fe.Field()
	if i := strings.LastIndex(path, "."); i >= 0 {
		at = path[:i]
	}

	switch {
	case field == "submodels" && fe.Tag() == "min":
		return errors.New("no submodels declared")
	case field == "name" && fe.Tag() == "required":
		return fmt.Errorf("%s: region has no name", at)
	case field == "kind" && fe.Tag() == "required":
		return fmt.Errorf("%s: kind is required", at)
	case fe.Tag() == "gte":
		return fmt.Errorf("%s: %s must not be negative", at, field)
	case field == "method" && fe.Tag() == "oneof":
		return fmt.Errorf("%s: unknown method %q", at, fe.Value())
	case fe.Tag() == "domain":
		return fmt.Errorf("%s: unknown domain %q", at, fe.Value())
	}
	return fmt.Errorf("%s: failed %q validation", path, fe.Tag())
}
