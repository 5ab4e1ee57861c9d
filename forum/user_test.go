package forum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSetPassword(t *testing.T) {
	u := User{Username: "alice"}
	require.NoError(t, u.SetPassword("secret"))

	assert.NotEqual(t, "secret", u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "secret")

	ok, err := u.PasswordMatches("secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordMatches_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	u := User{Username: "alice", PasswordHash: string(hash)}

	ok, err := u.PasswordMatches("nope")
	require.NoError(t, err, "a mismatch is a clean false, not an error")
	assert.False(t, ok)
}

func TestMessage_IsRoot(t *testing.T) {
	assert.True(t, Message{Parent: 0}.IsRoot())
	assert.False(t, Message{Parent: 7}.IsRoot())
}
