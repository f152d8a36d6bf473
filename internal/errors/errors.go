package errors

import "errors"

var (
	NotFound = errors.New("not found")

	// ErrEmptyComment is returned when a comment carries neither text nor an image.
	ErrEmptyComment = errors.New("comment has neither text nor image")
)
