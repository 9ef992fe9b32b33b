package validator

import (
	"errors"
	"fmt"

	"busport/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	msg := v[0].Error()
	if len(v) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(v)-1)
	}
	return msg
}

// BusValidator is the structural contract every write into the
// canonical Bus collection must pass.
type BusValidator struct {
	validate *validator.Validate
}

func NewBusValidator() *BusValidator {
	return &BusValidator{
		validate: validator.New(),
	}
}

func (v *BusValidator) Validate(bus *model.Bus) error {
	if err := v.validate.Struct(bus); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateBusinessRules(bus)
}

func (v *BusValidator) validateBusinessRules(bus *model.Bus) error {
	var errs ValidationErrors

	if !model.IsValidBusType(bus.BusType) {
		errs = append(errs, ValidationError{
			Field:   "busType",
			Message: fmt.Sprintf("%q is not a recognized bus type", bus.BusType),
		})
	}

	for _, amenity := range bus.Amenities {
		if !model.IsValidAmenity(amenity) {
			errs = append(errs, ValidationError{
				Field:   "amenities",
				Message: fmt.Sprintf("%q is not a recognized amenity", amenity),
			})
		}
	}

	if !model.StoppageOrdersUnique(bus.Stoppages) {
		errs = append(errs, ValidationError{
			Field:   "stoppages",
			Message: "stoppage order values must be unique",
		})
	}

	for i, stop := range bus.Stoppages {
		if !model.IsValidTimeOfDay(stop.GoingTime) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("stoppages[%d].goingTime", i),
				Message: fmt.Sprintf("%q is not a valid HH:MM time", stop.GoingTime),
			})
		}
		if !model.IsValidTimeOfDay(stop.ReturnTime) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("stoppages[%d].returnTime", i),
				Message: fmt.Sprintf("%q is not a valid HH:MM time", stop.ReturnTime),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: fmt.Sprintf("failed on the %q rule", err.Tag()),
		})
	}

	return validationErrors
}
