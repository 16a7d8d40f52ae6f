package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// check runs the struct tags and folds every failure into one
// ErrInvalidRequest naming the offending fields.
func (v *requestValidator) check(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalidRequest)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(fields, "; "), domain.ErrInvalidRequest)
}

// positiveAmount resolves a required amount. Zero and missing are both
// rejected.
func positiveAmount(field string, in domain.MoneyInput) (domain.Paisa, error) {
	if !in.IsSet() {
		return 0, fmt.Errorf("%s is required: %w", field, domain.ErrInvalidAmount)
	}
	p, err := in.Resolve()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if p <= 0 {
		return 0, fmt.Errorf("%s must be positive: %w", field, domain.ErrInvalidAmount)
	}
	return p, nil
}
