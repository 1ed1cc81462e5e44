package service

import "errors"

var (
	// ErrWindowClosed is returned when an evaluation is submitted
	// outside every scheduled window of its template.
	ErrWindowClosed = errors.New("evaluation window closed")

	// ErrRoleMismatch is returned when the submitted worker does not
	// hold the role the template evaluates.
	ErrRoleMismatch = errors.New("worker role does not match template")
)
