package service

import "errors"

// Sentinel errors surfaced to socket clients. The messages are part of the
// client contract and must stay stable.
var (
	// ErrTodoNotFound is returned when the referenced todo does not exist.
	ErrTodoNotFound = errors.New("Todo not found")

	// ErrCommentNotFound is returned when the referenced comment does not exist.
	ErrCommentNotFound = errors.New("Comment not found")

	// ErrNotCommentAuthor is returned when a user other than the recorded
	// author attempts to edit or delete a comment.
	ErrNotCommentAuthor = errors.New("You are not the author of this comment")

	// ErrMissingFields is returned when a required field of an edit or
	// delete request is absent or empty.
	ErrMissingFields = errors.New("Missing required fields")
)
