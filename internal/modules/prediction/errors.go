package prediction

import "errors"

var (
	ErrStorageFailed = errors.New("could not store uploaded file")
	ErrUnauthorized  = errors.New("login required")
)
