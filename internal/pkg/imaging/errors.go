package imaging

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image could not be decoded")
)
