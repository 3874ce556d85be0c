package extender

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched (via errors.Is) by every [ConfigurationError].
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a base list that cannot be composed.
type ConfigurationError struct {
	// Index of the offending base, or -1 when the list itself was empty.
	Index int
}

func (e *ConfigurationError) Error() string {
	if e.Index < 0 {
		return "at least one base must be provided"
	}
	return fmt.Sprintf("invalid base at index %d", e.Index)
}

// Is makes every ConfigurationError match [ErrConfiguration].
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Validate checks that bases is non-empty and that every element is a usable
// definition. The first failure found is returned.
func Validate(bases ...*Definition) error {
	return validate(bases)
}

func validate(bases []*Definition) error {
	if len(bases) == 0 {
		return &ConfigurationError{Index: -1}
	}
	for i, base := range bases {
		if !base.usable() {
			return &ConfigurationError{Index: i}
		}
	}
	return nil
}
