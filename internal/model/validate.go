// SPDX-License-Identifier: MIT

package model

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	structValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() { structValidator = validator.New() })
	return structValidator
}

// Validate enforces the struct-tag rules on SessionRequest (non-empty
// query, positive target count), returning a KindInvalidRequest *Error on
// failure so callers can surface it without inspecting validator internals.
func (r SessionRequest) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return NewError(KindInvalidRequest, "session.start", err.Error(), err)
	}
	return nil
}
