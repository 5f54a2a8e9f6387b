// Package validation wires the go-playground validator with the course-time rule
// shared by request binding and the registration store.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/eduportal/backend/internal/schedule"
)

// CourseTimeTag validates that a string parses as a course time range.
const CourseTimeTag = "coursetime"

// CourseTimeHint is shown when a course time cannot be parsed.
const CourseTimeHint = "Enter time like: Mon 10:00 AM - 11:00 AM"

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Register adds the custom rules to an existing validator (e.g. gin's binding engine).
func Register(v *validator.Validate) error {
	return v.RegisterValidation(CourseTimeTag, func(fl validator.FieldLevel) bool {
		_, ok := schedule.ParseTimeRange(fl.Field().String())
		return ok
	})
}

// RegisterGin adds the custom rules to gin's binding engine so request structs can
// use them in `binding` tags.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not a go-playground validator")
	}
	return Register(v)
}

// Message turns a validation error into a single user-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return "Enter a valid email address."
	case CourseTimeTag:
		return CourseTimeHint
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

// humanize turns "CourseName" into "Course name".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
