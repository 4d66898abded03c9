package service

import "errors"

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("upload too large")
