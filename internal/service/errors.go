package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoadFailed         = errors.New("remote load failed")
	ErrExtractFailed      = errors.New("extraction failed")
	ErrExtractAuth        = errors.New("extraction credential rejected")
)
