package application

import "errors"

var (
	// ErrUserNotFound: a lookup by id or email matched nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken: create rejected because the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPublishFailed: transport error while announcing an event.
	ErrPublishFailed = errors.New("event publish failed")
)
