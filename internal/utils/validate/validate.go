// Package validate owns the shared go-playground validator instance with
// the domain-specific tags registered on it.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/learnhub/learning-api/internal/types"
)

// A *validator.Validate caches struct metadata and is safe for concurrent
// use, so one instance serves every request.
var v = New()

// New builds a validator that reports fields by their JSON names and knows
// the academic_level and course_level tags.
func New() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = val.RegisterValidation("academic_level", func(fl validator.FieldLevel) bool {
		return types.AcademicLevel(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		return types.CourseLevel(fl.Field().String()).Valid()
	})

	return val
}

// Struct validates s against its validate:"..." tags.
func Struct(s any) error {
	return v.Struct(s)
}

// Var validates a single value against tag.
func Var(field any, tag string) error {
	return v.Var(field, tag)
}
