package models

import "errors"

var (
	ErrInvalidInput         = errors.New("upload failed: invalid input")
	ErrUnsupportedMediaType = errors.New("unsupported file type")
	ErrTooLarge             = errors.New("upload too large")
)
