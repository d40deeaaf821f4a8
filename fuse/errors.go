package fuse

import (
	"errors"
	"fmt"
)

// MissingFieldError indicates that Encode was called without a value for a
// field the layout requires.
type MissingFieldError struct {
	Register Register
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s register: missing value for field %q", e.Register, e.Field)
}

// InvalidValueError indicates a field value outside the field's legal range.
type InvalidValueError struct {
	Register Register
	Field    string
	Value    Value
	Max      Value
}

func (e *InvalidValueError) Error() string {
	if e.Value == Unrecognized {
		return fmt.Sprintf("%s register: field %q holds an unrecognized value and cannot be encoded",
			e.Register, e.Field)
	}
	return fmt.Sprintf("%s register: value %d for field %q is out of range 0-%d",
		e.Register, e.Value, e.Field, e.Max)
}

// UnsupportedRegisterError indicates that a profile has no layout for a register.
type UnsupportedRegisterError struct {
	Profile  string
	Register Register
}

func (e *UnsupportedRegisterError) Error() string {
	return fmt.Sprintf("%s has no %s register", e.Profile, e.Register)
}

// UnknownFieldError indicates a field name that a register layout does not define.
type UnknownFieldError struct {
	Register Register
	Field    string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s register has no field %q", e.Register, e.Field)
}

// UnknownProfileError indicates a device name with no matching profile.
type UnknownProfileError struct {
	Name string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown device %q", e.Name)
}

// IsMissingField returns true if err is or wraps a MissingFieldError.
func IsMissingField(err error) bool {
	var target *MissingFieldError
	return errors.As(err, &target)
}
