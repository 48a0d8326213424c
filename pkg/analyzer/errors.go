package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every rejection of the input itself.
	ErrValidation = errors.New("invalid password input")

	ErrEmptyPassword   = fmt.Errorf("%w: password must not be empty", ErrValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password is too long", ErrValidation)

	// ErrInternal hides any unexpected failure. Its message never carries password detail.
	ErrInternal = errors.New("internal analysis error")
)
