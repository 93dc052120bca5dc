package captcha9kw

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateAPIKey checks the key charset ([a-zA-Z0-9]) and length (5..50).
func validateAPIKey(key string) error {
	if err := validate.Var(key, "required,alphanum,min=5,max=50"); err != nil {
		return fmt.Errorf("%w: invalid API key: minimum length is 5, maximum length is 50, only a-z, A-Z and 0-9 allowed", ErrConfiguration)
	}
	return nil
}

// validateSource checks the source name is at most 30 characters long.
func validateSource(name string) error {
	if err := validate.Var(name, "max=30"); err != nil {
		return fmt.Errorf("%w: source name too long, maximum length is 30 characters", ErrConfiguration)
	}
	return nil
}

// validateOptions runs struct-tag validation on submission options.
func validateOptions(opts any) error {
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
