package ratetable

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	ufRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("uf", validateUF)
	})
	return validate
}

// validateUF accepts two uppercase ASCII letters
func validateUF(fl validator.FieldLevel) bool {
	return ufRegex.MatchString(fl.Field().String())
}

func validatePolicy(file *policyFile) error {
	err := getValidator().Struct(file)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("invalid shipping policy: %w", err)
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		problems = append(problems, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid shipping policy: %s", strings.Join(problems, "; "))
}
