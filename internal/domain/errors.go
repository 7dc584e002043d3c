package domain

import "errors"

var (
	ErrConnection = errors.New("connection") // store unreachable or mis-configured
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrIntegrity  = errors.New("integrity")  // 409
)
