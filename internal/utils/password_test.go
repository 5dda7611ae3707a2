package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
    PasswordCost = bcrypt.MinCost
    t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

    hashed, err := HashPassword("admin123")
    require.NoError(t, err)
    assert.NotEqual(t, "admin123", hashed)
    assert.True(t, CheckPassword(hashed, "admin123"))
    assert.False(t, CheckPassword(hashed, "wrong"))

    cost, err := bcrypt.Cost([]byte(hashed))
    require.NoError(t, err)
    assert.Equal(t, bcrypt.MinCost, cost)
}
