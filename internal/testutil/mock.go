// Package testutil provides shared test fixtures and mock helpers.
package testutil

import (
	"fmt"

	"github.com/stretchr/testify/mock"
)

// ExtractError extracts error from mock arguments with single return value validation.
func ExtractError(args mock.Arguments) error {
	if len(args) != 1 {
		return fmt.Errorf("mock not properly configured: expected 1 return value, got %d", len(args)) //nolint:err113 // defensive error for test mock
	}

	if args.Get(0) == nil {
		return nil
	}

	if err, ok := args.Get(0).(error); ok {
		return err
	}

	return fmt.Errorf("mock returned non-error type: %T", args.Get(0)) //nolint:err113 // defensive error for test mock
}
