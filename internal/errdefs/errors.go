package errdefs

import "errors"

var (
	ErrAuthentication     = errors.New("authentication error")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUpstream           = errors.New("upstream provider error")
	ErrPaymentNotComplete = errors.New("payment not complete")
)
