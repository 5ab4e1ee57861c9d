package forum

import "errors"

var (
	// ErrNotFound means the referenced forum, message or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken means registration lost to an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers must not tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidParent means a reply addressed a message that is not a
	// thread root.
	ErrInvalidParent = errors.New("parent message is not a thread root")
)
