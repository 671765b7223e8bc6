package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"day-planner/internal/domain"
)

// Validator checks records against their struct tags plus the planner's own
// tags: clock (HH:MM), isodate (YYYY-MM-DD) and weekdays (encoded day map).
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("weekdays", func(fl validator.FieldLevel) bool {
		_, err := domain.DecodeWeekdaySet(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate runs struct tag validation and returns a *ValidationError
// describing every failed field. It satisfies echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.collect(i).orNil()
}

func (v *Validator) collect(i interface{}) *ValidationError {
	ve := NewValidationError()
	err := v.validate.Struct(i)
	if err == nil {
		return ve
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.AddInvalidValueError("input", i, err.Error())
		return ve
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			ve.AddRequiredError(field)
		case "clock":
			ve.AddInvalidFormatError(field, fe.Value(), "HH:MM")
		case "isodate":
			ve.AddInvalidFormatError(field, fe.Value(), "YYYY-MM-DD")
		case "weekdays":
			ve.AddInvalidFormatError(field, fe.Value(), `{"monday":true,...}`)
		case "max":
			ve.AddInvalidLengthError(field, fe.Value(), paramInt(fe.Param()))
		case "gte", "lte":
			ve.AddInvalidRangeError(field, fe.Value(), fmt.Sprintf("must be %s %s", rangeWord(fe.Tag()), fe.Param()))
		case "oneof":
			ve.AddInvalidValueError(field, fe.Value(), fmt.Sprintf("must be one of [%s]", fe.Param()))
		default:
			ve.AddInvalidValueError(field, fe.Value(), fe.Tag())
		}
	}
	return ve
}

func rangeWord(tag string) string {
	if tag == "gte" {
		return "at least"
	}
	return "at most"
}

func paramInt(p string) int {
	var n int
	_, _ = fmt.Sscanf(p, "%d", &n)
	return n
}
