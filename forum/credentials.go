package forum

import (
	"context"
	"errors"
	"fmt"

	"github.com/rexlx/parlance/logger"
)

// Credentials owns the user lifecycle: registration and login verification.
type Credentials struct {
	store  Store
	logger *logger.Logger
}

func NewCredentials(store Store, log *logger.Logger) *Credentials {
	return &Credentials{store: store, logger: log}
}

// Register hashes the password and inserts the user. Uniqueness is enforced
// by the store inside the insert itself, so two concurrent registrations for
// the same username cannot both win.
func (c *Credentials) Register(ctx context.Context, username, password string) error {
	user := User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := c.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			c.logger.Info("registration rejected, username taken", "username", username)
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	c.logger.Info("user registered", "username", username)
	return nil
}

// Authenticate verifies a username/password pair and returns the identity on
// success. An unknown username and a wrong password both come back as
// ErrInvalidCredentials.
func (c *Credentials) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := c.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	ok, err := user.PasswordMatches(password)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return user.Username, nil
}
