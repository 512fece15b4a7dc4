package utils

import (
	"github.com/pkg/errors"
)

// NewUnknownNameError is used when a configured name does not map to a known value.
func NewUnknownNameError(kind, name string, known []string) error {
	return errors.Errorf("unknown %s %q (expected one of %v)", kind, name, known)
}
