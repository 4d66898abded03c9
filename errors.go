package slidetext

import "fmt"

// ImageTooLargeError is reported for pictures skipped by MaxImageBytes.
type ImageTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("image of %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}
