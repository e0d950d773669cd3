package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Class durations are imported as whole half hours. A grid with a longer unit must also pass ValidateDurations
const durationStep = 30

var validate = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("halfhour", func(field validator.FieldLevel) bool {
		return field.Field().Int()%durationStep == 0
	}); err != nil {
		panic(fmt.Sprintf("cannot register duration validation: %v", err))
	}
	return validate
}

// Validate checks a single record the same way the JSON import does
func Validate(record any) error {
	return validate.Struct(record)
}

// ValidateDurations rejects students whose class duration is not a whole number of grid units, since those
// would silently be rounded up to the next unit
func ValidateDurations(students []Student, unitMinutes int) error {
	if unitMinutes <= 0 {
		return fmt.Errorf("%w: unit length must be positive: %v", ErrInvalidRecord, unitMinutes)
	}
	misfits := lo.Filter(students, func(student Student, _ int) bool { return student.ClassDuration%unitMinutes != 0 })
	if len(misfits) > 0 {
		names := lo.Map(misfits, func(student Student, _ int) string { return student.Name })
		return fmt.Errorf("%w: class durations of %v are not multiples of %v minutes", ErrInvalidRecord, names, unitMinutes)
	}
	return nil
}
