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

// BusRequestValidator enforces what a submission must carry up front:
// name, number and a well-formed route. Vehicle class, capacity and fare
// are deliberately NOT validated here; malformed values are replaced
// with platform defaults at approval time.
type BusRequestValidator struct {
	validate *validator.Validate
}

func NewBusRequestValidator() *BusRequestValidator {
	return &BusRequestValidator{
		validate: validator.New(),
	}
}

func (v *BusRequestValidator) Validate(req *model.BusRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateBusinessRules(req)
}

func (v *BusRequestValidator) validateBusinessRules(req *model.BusRequest) error {
	var errs ValidationErrors

	if !model.StoppageOrdersUnique(req.Stoppages) {
		errs = append(errs, ValidationError{
			Field:   "stoppages",
			Message: "stoppage order values must be unique",
		})
	}

	for i, stop := range req.Stoppages {
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
