package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPermissionDenied   = errors.New("permission denied")
)

// PermissionError carries the policy's denial reason while still
// matching ErrPermissionDenied under errors.Is.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}
